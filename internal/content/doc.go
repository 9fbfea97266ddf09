// Package content defines the unified content record shared by every
// ingestion adapter (Gmail, RSS) and by the AI enrichment stage.
//
// An Item carries five independently optional fields. Absent fields are nil,
// which keeps "missing" distinct from "present but empty". Construction from a
// loose mapping (FromMap, UnmarshalJSON) is strict: unknown keys and values of
// the wrong type are rejected. Set re-validates on every mutation.
//
// Example usage:
//
//	item, err := content.FromMap(map[string]any{
//	    "title":  "Weekly digest",
//	    "source": "Gmail",
//	})
//	if err != nil {
//	    return err
//	}
//	enriched := item.WithMetadata("ai_summary", summary)
package content
