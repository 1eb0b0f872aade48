package universe

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sigscan/sigscan/internal/core"
)

const (
	nseBaseURL = "https://archives.nseindia.com/content/indices"
	nseTimeout = 10 * time.Second
	nseSuffix  = ".NS"
)

// nseIndices maps group names to NSE index membership CSV files.
var nseIndices = map[string]string{
	"nifty-50":           "ind_nifty50list.csv",
	"nifty-next-50":      "ind_niftynext50list.csv",
	"nifty-100":          "ind_nifty100list.csv",
	"nifty-200":          "ind_nifty200list.csv",
	"nifty-500":          "ind_nifty500list.csv",
	"smallcap-50":        "ind_niftysmallcap50list.csv",
	"smallcap-100":       "ind_niftysmallcap100list.csv",
	"smallcap-250":       "ind_niftysmallcap250list.csv",
	"midcap-50":          "ind_niftymidcap50list.csv",
	"midcap-100":         "ind_niftymidcap100list.csv",
	"midcap-150":         "ind_niftymidcap150list.csv",
	"bank":               "ind_niftybanklist.csv",
	"financial-services": "ind_niftyfinancelist.csv",
	"fmcg":               "ind_niftyfmcglist.csv",
	"it":                 "ind_niftyitlist.csv",
	"media":              "ind_niftymedialist.csv",
	"metal":              "ind_niftymetallist.csv",
	"pharma":             "ind_niftypharmalist.csv",
	"psu-bank":           "ind_niftypsubanklist.csv",
	"realty":             "ind_niftyrealtylist.csv",
}

// NSE resolves index groups from the exchange's published membership CSVs.
// When the exchange is unreachable it falls back to a local copy of the
// same file under fallbackDir, so scans keep working offline.
type NSE struct {
	client      *http.Client
	baseURL     string
	fallbackDir string
	logger      *zap.Logger
}

// NewNSE creates an NSE universe provider. fallbackDir may be empty to
// disable the local fallback. The logger is optional.
func NewNSE(fallbackDir string, logger ...*zap.Logger) *NSE {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &NSE{
		client:      &http.Client{Timeout: nseTimeout},
		baseURL:     nseBaseURL,
		fallbackDir: fallbackDir,
		logger:      l,
	}
}

// Symbols returns the members of an index group with the ".NS" quote
// suffix appended.
func (n *NSE) Symbols(ctx context.Context, group string) ([]string, error) {
	file, ok := nseIndices[group]
	if !ok {
		return nil, core.WrapError(core.ErrUniverseFailed, fmt.Errorf("unknown group %q", group))
	}

	symbols, err := n.fetch(ctx, file)
	if err != nil {
		n.logger.Warn("index fetch failed, trying local fallback",
			zap.String("group", group), zap.Error(err))
		symbols, err = n.fallback(file)
		if err != nil {
			return nil, core.WrapError(core.ErrUniverseFailed, err)
		}
	}

	out := make([]string, len(symbols))
	for i, sym := range symbols {
		out[i] = sym + nseSuffix
	}
	return out, nil
}

// Groups lists the known index groups, sorted.
func (n *NSE) Groups() []string {
	out := make([]string, 0, len(nseIndices))
	for g := range nseIndices {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

func (n *NSE) fetch(ctx context.Context, file string) ([]string, error) {
	url := n.baseURL + "/" + file
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// The exchange rejects requests without a browser user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return parseSymbolColumn(resp.Body)
}

func (n *NSE) fallback(file string) ([]string, error) {
	if n.fallbackDir == "" {
		return nil, fmt.Errorf("no fallback directory configured")
	}
	f, err := os.Open(filepath.Join(n.fallbackDir, file))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseSymbolColumn(f)
}
