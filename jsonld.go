package blog

import (
	"encoding/json"
	"log/slog"
)

const schemaContext = "https://schema.org"

// JSONLD is a Schema.org structured-data document. Its keys are emitted
// verbatim and form a contract with search engines.
type JSONLD map[string]any

// publisherJSONLD builds the Organization node shared by the Blog and
// BlogPosting documents.
func publisherJSONLD(site SiteConfig) JSONLD {
	return JSONLD{
		"@type": "Organization",
		"name":  site.publisherName(),
		"url":   site.PublisherURL,
	}
}

// marshalJSONLD serializes doc for a <script type="application/ld+json">
// block. It never fails: errors are logged and "{}" is returned instead.
func marshalJSONLD(doc JSONLD) string {
	if len(doc) == 0 {
		return "{}"
	}
	b, err := json.Marshal(doc)
	if err != nil {
		slog.Error("failed to generate JSON-LD", "type", doc["@type"], "error", err)
		return "{}"
	}
	return string(b)
}
