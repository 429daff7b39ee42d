package maxmind

// Location is what the GeoIP databases know about one address.
// Fields stay empty when a database is not loaded or has no record.
type Location struct {
	IP           string `json:"ip"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	City         string `json:"city"`
	ASN          uint   `json:"asn,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// Found reports whether any database produced data for the address
func (l Location) Found() bool {
	return l.CountryCode != "" || l.City != "" || l.ASN != 0
}
