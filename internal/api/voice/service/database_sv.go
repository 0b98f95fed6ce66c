package voiceService

import (
	"NotionVoice/internal/entity"
	"NotionVoice/pkg/notion"
	"context"
	"fmt"
)

type databaseKind int

const (
	databaseKindPlain databaseKind = iota
	databaseKindKanban
	databaseKindTable
)

// statusColors rotates deterministically over the select-option palette, so
// rebuilding the same board yields the same colors.
var statusColors = []string{"gray", "blue", "green", "yellow", "red"}

var defaultKanbanColumns = []string{"To Do", "In Progress", "Done"}

func (s *voiceService) createDatabase(ctx context.Context, client notion.IClient, userCtx *entity.UserContext, intent *entity.Intent, kind databaseKind) entity.ActionResult {
	parentID, ok := resolveSubject(userCtx)
	if !ok {
		return failure("No page is open to create the database under. Open a page first.")
	}

	properties := buildDatabaseProperties(kind, intent.Columns)

	db, err := client.CreateDatabase(ctx, parentID, intent.DatabaseTitle, properties)
	if err != nil {
		return upstreamFailure("Creating the database", err)
	}

	noun := "database"
	switch kind {
	case databaseKindKanban:
		noun = "kanban board"
	case databaseKindTable:
		noun = "table"
	}
	return success(fmt.Sprintf("Created %s %q", noun, intent.DatabaseTitle), db.ID, "")
}

// buildDatabaseProperties builds the property schema. The title column is
// mandatory; kanban boards get a status select with a rotating color per
// option, tables and plain databases get text columns.
func buildDatabaseProperties(kind databaseKind, columns []string) map[string]interface{} {
	properties := map[string]interface{}{
		"Name": map[string]interface{}{"title": map[string]interface{}{}},
	}

	switch kind {
	case databaseKindKanban:
		if len(columns) == 0 {
			columns = defaultKanbanColumns
		}
		options := make([]map[string]interface{}, 0, len(columns))
		for i, column := range columns {
			options = append(options, map[string]interface{}{
				"name":  column,
				"color": statusColors[i%len(statusColors)],
			})
		}
		properties["Status"] = map[string]interface{}{
			"select": map[string]interface{}{"options": options},
		}
	default:
		for _, column := range columns {
			properties[column] = map[string]interface{}{
				"rich_text": map[string]interface{}{},
			}
		}
	}

	return properties
}

func (s *voiceService) addDatabaseEntry(ctx context.Context, client notion.IClient, intent *entity.Intent) entity.ActionResult {
	properties := make(map[string]interface{}, len(intent.Properties))
	for name, value := range intent.Properties {
		properties[name] = propertyValue(name, value)
	}

	page, err := client.CreateDatabaseEntry(ctx, intent.DatabaseID, properties)
	if err != nil {
		return upstreamFailure("Adding the entry", err)
	}
	return success("Entry added to the database", page.ID, "")
}

// propertyValue maps a generic value to the API's typed property shape by
// runtime type. Maps pass through untouched for callers that already built
// the typed shape.
func propertyValue(name string, value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		if name == "Name" || name == "name" || name == "title" {
			return map[string]interface{}{
				"title": []map[string]interface{}{
					{"text": map[string]interface{}{"content": v}},
				},
			}
		}
		return map[string]interface{}{
			"rich_text": []map[string]interface{}{
				{"text": map[string]interface{}{"content": v}},
			},
		}
	case bool:
		return map[string]interface{}{"checkbox": v}
	case float64:
		return map[string]interface{}{"number": v}
	case int:
		return map[string]interface{}{"number": float64(v)}
	case []interface{}:
		options := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			options = append(options, map[string]interface{}{"name": fmt.Sprintf("%v", item)})
		}
		return map[string]interface{}{"multi_select": options}
	default:
		return value
	}
}
