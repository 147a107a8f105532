// Package dossier builds local dossiers of a public company's SEC filings.
// Given a ticker it resolves the company's CIK, retrieves and filters the
// filing history, materializes each filing as an artifact (links only or
// downloaded and hashed), normalizes downloaded content into markdown and
// writes a heading-delimited chunk index next to a JSON manifest.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, rod/).
package dossier
