package yahoo

// Snapshot is the raw attribute bundle for one symbol. Every numeric field
// is nullable: the provider frequently returns partial data and absent
// values must stay absent rather than defaulting to zero.
type Snapshot struct {
	Name     string
	Sector   string
	Industry string

	Price             *float64
	PreviousClose     *float64
	MarketCap         *float64
	Cash              *float64
	TotalDebt         *float64
	Revenue           *float64
	TotalOpex         *float64
	SharesOutstanding *float64
	HeldPctInsiders   *float64
	AvgVolume30d      *float64

	Officers []Officer
	News     []NewsItem
}

// HasPrice reports whether the snapshot carries any usable current-price
// signal. A snapshot without one means the provider has nothing for the
// symbol.
func (s *Snapshot) HasPrice() bool {
	return s != nil && s.Price != nil
}

// Officer is a company officer as reported by the provider.
type Officer struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// NewsItem is one recent news entry for a symbol.
type NewsItem struct {
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	Link        string `json:"link"`
	PublishedAt int64  `json:"providerPublishTime"`
}

// --- wire format ---

// apiValue is the provider's {"raw": 1.23, "fmt": "1.23"} number wrapper.
type apiValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResult struct {
	Price                *priceModule        `json:"price"`
	SummaryDetail        *summaryDetail      `json:"summaryDetail"`
	FinancialData        *financialData      `json:"financialData"`
	DefaultKeyStatistics *keyStatistics      `json:"defaultKeyStatistics"`
	AssetProfile         *assetProfileModule `json:"assetProfile"`
}

type priceModule struct {
	ShortName                  string    `json:"shortName"`
	LongName                   string    `json:"longName"`
	RegularMarketPrice         *apiValue `json:"regularMarketPrice"`
	RegularMarketPreviousClose *apiValue `json:"regularMarketPreviousClose"`
	MarketCap                  *apiValue `json:"marketCap"`
}

type summaryDetail struct {
	PreviousClose *apiValue `json:"previousClose"`
	AverageVolume *apiValue `json:"averageVolume"`
	MarketCap     *apiValue `json:"marketCap"`
}

type financialData struct {
	CurrentPrice      *apiValue `json:"currentPrice"`
	TotalCash         *apiValue `json:"totalCash"`
	TotalDebt         *apiValue `json:"totalDebt"`
	TotalRevenue      *apiValue `json:"totalRevenue"`
	OperatingExpenses *apiValue `json:"operatingExpenses"`
}

type keyStatistics struct {
	SharesOutstanding   *apiValue `json:"sharesOutstanding"`
	HeldPercentInsiders *apiValue `json:"heldPercentInsiders"`
}

type assetProfileModule struct {
	Sector          string    `json:"sector"`
	Industry        string    `json:"industry"`
	CompanyOfficers []Officer `json:"companyOfficers"`
}

type newsSearchResponse struct {
	News []NewsItem `json:"news"`
}

func raw(v *apiValue) *float64 {
	if v == nil {
		return nil
	}
	return v.Raw
}

// coalesce returns the first non-nil value.
func coalesce(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// toSnapshot flattens a quoteSummary result into a Snapshot.
func toSnapshot(r quoteSummaryResult) *Snapshot {
	snap := &Snapshot{}

	if p := r.Price; p != nil {
		snap.Name = p.ShortName
		if snap.Name == "" {
			snap.Name = p.LongName
		}
		snap.Price = raw(p.RegularMarketPrice)
		snap.PreviousClose = raw(p.RegularMarketPreviousClose)
		snap.MarketCap = raw(p.MarketCap)
	}
	if sd := r.SummaryDetail; sd != nil {
		snap.PreviousClose = coalesce(snap.PreviousClose, raw(sd.PreviousClose))
		snap.MarketCap = coalesce(snap.MarketCap, raw(sd.MarketCap))
		snap.AvgVolume30d = raw(sd.AverageVolume)
	}
	if fd := r.FinancialData; fd != nil {
		snap.Price = coalesce(snap.Price, raw(fd.CurrentPrice))
		snap.Cash = raw(fd.TotalCash)
		snap.TotalDebt = raw(fd.TotalDebt)
		snap.Revenue = raw(fd.TotalRevenue)
		snap.TotalOpex = raw(fd.OperatingExpenses)
	}
	if ks := r.DefaultKeyStatistics; ks != nil {
		snap.SharesOutstanding = raw(ks.SharesOutstanding)
		snap.HeldPctInsiders = raw(ks.HeldPercentInsiders)
	}
	if ap := r.AssetProfile; ap != nil {
		snap.Sector = ap.Sector
		snap.Industry = ap.Industry
		snap.Officers = ap.CompanyOfficers
	}
	return snap
}
