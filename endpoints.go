package dossier

import (
	"net/url"
	"strings"
)

// Endpoints holds the SEC base URLs. Tests point them at local servers.
type Endpoints struct {
	// WWW serves the company directory, archives and viewer.
	WWW string

	// Data serves submissions and XBRL APIs.
	Data string
}

// DefaultEndpoints are the public SEC hosts.
var DefaultEndpoints = Endpoints{
	WWW:  "https://www.sec.gov",
	Data: "https://data.sec.gov",
}

// TickerDirectoryURL returns the company ticker directory URL.
func (e Endpoints) TickerDirectoryURL() string {
	return e.WWW + "/files/company_tickers.json"
}

// SubmissionsURL returns the filing-history feed of a 10-digit CIK.
func (e Endpoints) SubmissionsURL(cik string) string {
	return e.Data + "/submissions/CIK" + cik + ".json"
}

// SubmissionsPageURL returns an older filing-history page listed in the feed.
func (e Endpoints) SubmissionsPageURL(name string) string {
	return e.Data + "/submissions/" + name
}

// CompanyFactsURL returns the XBRL company facts of a 10-digit CIK.
func (e Endpoints) CompanyFactsURL(cik string) string {
	return e.Data + "/api/xbrl/companyfacts/CIK" + cik + ".json"
}

// DocumentURL returns the archive URL of a filing's primary document.
func (e Endpoints) DocumentURL(cik, accession, primaryDocument string) string {
	return e.WWW + "/Archives/edgar/data/" + trimCIK(cik) + "/" +
		strings.ReplaceAll(accession, "-", "") + "/" + primaryDocument
}

// ViewerURL returns the human-readable filing viewer URL.
func (e Endpoints) ViewerURL(cik, accession string) string {
	return e.WWW + "/cgi-bin/viewer?action=view&cik=" + trimCIK(cik) +
		"&accession_number=" + url.QueryEscape(accession) + "&xbrl_type=v"
}

func trimCIK(cik string) string {
	if s := strings.TrimLeft(cik, "0"); s != "" {
		return s
	}
	return "0"
}
