package places

// Wire types for the directory provider's JSON responses. Only the
// fields the service consumes are declared; the provider sends more.

// searchResponse is the body of a nearby-search call.
type searchResponse struct {
    Status  string         `json:"status"`
    Results []searchResult `json:"results"`
}

// searchResult is one venue in a nearby-search response. PriceLevel
// and Rating are optional on the wire and pass through verbatim.
type searchResult struct {
    PlaceID    string   `json:"place_id"`
    Name       string   `json:"name"`
    PriceLevel *int     `json:"price_level"`
    Rating     *float64 `json:"rating"`
    Geometry   struct {
        Location struct {
            Lat float64 `json:"lat"`
            Lng float64 `json:"lng"`
        } `json:"location"`
    } `json:"geometry"`
    Vicinity string `json:"vicinity"`
}

// detailResponse is the body of a place-detail call requesting the
// photos and url fields.
type detailResponse struct {
    Status string `json:"status"`
    Result struct {
        Photos []struct {
            PhotoReference string `json:"photo_reference"`
        } `json:"photos"`
        URL string `json:"url"`
    } `json:"result"`
}

// statusOK and statusZeroResults are the two success terminals for a
// nearby search; every other status is fatal for the query.
const (
    statusOK          = "OK"
    statusZeroResults = "ZERO_RESULTS"
)
