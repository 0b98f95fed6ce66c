package nlu

import openai "github.com/sashabaranov/go-openai"

var actionEnum = []string{
	"OPEN_PAGE",
	"CREATE_BLOCK",
	"UPDATE_BLOCK",
	"DELETE_BLOCK",
	"DELETE_PAGE",
	"GO_BACK",
	"CREATE_PAGE",
	"APPEND_TODO",
	"SUMMARIZE_PAGE",
	"GENERATE_CONTENT",
	"CREATE_DATABASE",
	"CREATE_KANBAN",
	"CREATE_TABLE",
	"ADD_DATABASE_ENTRY",
	"SEARCH_PAGES",
}

var blockTypeEnum = []string{
	"paragraph",
	"heading_1",
	"heading_2",
	"heading_3",
	"bulleted_list_item",
	"numbered_list_item",
	"to_do",
	"callout",
	"code",
	"toggle",
	"quote",
	"divider",
}

var intentTool = openai.Tool{
	Type: openai.ToolTypeFunction,
	Function: &openai.FunctionDefinition{
		Name:        intentFunctionName,
		Description: "Execute a Notion action based on user voice command",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"action": map[string]interface{}{
					"type":        "string",
					"enum":        actionEnum,
					"description": "The action to perform in Notion",
				},
				"pageQuery": map[string]interface{}{
					"type":        "string",
					"description": "Page name or ID to search/open/create/delete",
				},
				"blockId": map[string]interface{}{
					"type":        "string",
					"description": "Block ID for UPDATE_BLOCK or DELETE_BLOCK actions",
				},
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "Prompt for GENERATE_CONTENT - what content to generate",
				},
				"block": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"type": map[string]interface{}{
							"type":        "string",
							"enum":        blockTypeEnum,
							"description": "Block type",
						},
						"text": map[string]interface{}{
							"type":        "string",
							"description": "Block text content",
						},
					},
					"required": []string{"type", "text"},
				},
				"position": map[string]interface{}{
					"type":        "string",
					"description": "Position to insert block: \"start\", \"end\", or \"after:blockId\"",
				},
				"options": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"language": map[string]interface{}{
							"type":        "string",
							"description": "Programming language for code blocks",
						},
						"emoji": map[string]interface{}{
							"type":        "string",
							"description": "Emoji for callout blocks",
						},
					},
				},
				"databaseTitle": map[string]interface{}{
					"type":        "string",
					"description": "Title for CREATE_DATABASE, CREATE_KANBAN, or CREATE_TABLE",
				},
				"databaseId": map[string]interface{}{
					"type":        "string",
					"description": "Database ID for ADD_DATABASE_ENTRY",
				},
				"columns": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Column names for CREATE_KANBAN (status columns) or CREATE_TABLE",
				},
				"properties": map[string]interface{}{
					"type":        "object",
					"description": "Properties for ADD_DATABASE_ENTRY (key-value pairs)",
				},
			},
			"required": []string{"action"},
		},
	},
}

const systemPrompt = `You are a voice assistant for Notion. The user dictates commands to manipulate their Notion pages.

Analyze the transcription and return one structured intent through the execute_notion_intent function.

Available actions:
- OPEN_PAGE: open a page (by name or ID)
- CREATE_BLOCK: create a block with LITERAL text (the user dictates exactly what they want)
- UPDATE_BLOCK: update an existing block (requires blockId)
- DELETE_BLOCK: delete a specific block (requires blockId)
- DELETE_PAGE: delete an entire page (by name with pageQuery)
- GO_BACK: return to the previous page
- CREATE_PAGE: create a new page
- APPEND_TODO: add a to-do task
- SUMMARIZE_PAGE: summarize the current page content
- GENERATE_CONTENT: generate content with AI (the user gives an instruction/prompt)
- CREATE_DATABASE: create a custom database with specific columns
- CREATE_KANBAN: create a Kanban board with status columns
- CREATE_TABLE: create a simple table
- ADD_DATABASE_ENTRY: add an entry to an existing database
- SEARCH_PAGES: search pages by name

Rules:
1. If the user asks to "generate", "write", "draft" content WITHOUT giving the exact text, use GENERATE_CONTENT.
2. If the user dictates the exact text ("with the text...", "exactly this..."), use CREATE_BLOCK.
3. If the user asks for a "kanban", "board", "kanban board", use CREATE_KANBAN with databaseTitle and columns (default ["To Do", "In Progress", "Done"]).
4. If the user asks for a "table" with columns, use CREATE_TABLE.
5. Generated text may contain Markdown (**bold**, *italic*, etc.) which will be formatted in Notion.

Examples:
- "Open the page project alpha" -> OPEN_PAGE with pageQuery="project alpha"
- "Add a paragraph with the text hello" -> CREATE_BLOCK with block.type=paragraph, block.text="hello"
- "Write a paragraph about artificial intelligence" -> GENERATE_CONTENT with prompt="write a paragraph about artificial intelligence"
- "Add a task call John" -> APPEND_TODO with block.type=to_do, block.text="call John"
- "Delete the page test" -> DELETE_PAGE with pageQuery="test"
- "Go back" -> GO_BACK
- "Summarize this page" -> SUMMARIZE_PAGE
- "Search pages containing design" -> SEARCH_PAGES with pageQuery="design"

Be precise and extract all relevant information from the transcription.`
