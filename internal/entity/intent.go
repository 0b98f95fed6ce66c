package entity

type Action string

const (
	ActionOpenPage         Action = "OPEN_PAGE"
	ActionCreateBlock      Action = "CREATE_BLOCK"
	ActionUpdateBlock      Action = "UPDATE_BLOCK"
	ActionDeleteBlock      Action = "DELETE_BLOCK"
	ActionDeletePage       Action = "DELETE_PAGE"
	ActionGoBack           Action = "GO_BACK"
	ActionCreatePage       Action = "CREATE_PAGE"
	ActionAppendTodo       Action = "APPEND_TODO"
	ActionSummarizePage    Action = "SUMMARIZE_PAGE"
	ActionGenerateContent  Action = "GENERATE_CONTENT"
	ActionCreateDatabase   Action = "CREATE_DATABASE"
	ActionCreateKanban     Action = "CREATE_KANBAN"
	ActionCreateTable      Action = "CREATE_TABLE"
	ActionAddDatabaseEntry Action = "ADD_DATABASE_ENTRY"
	ActionSearchPages      Action = "SEARCH_PAGES"
)

type BlockSpec struct {
	Type string `json:"type" validate:"required,oneof=paragraph heading_1 heading_2 heading_3 bulleted_list_item numbered_list_item to_do callout code toggle quote divider"`
	Text string `json:"text" validate:"required"`
}

type IntentOptions struct {
	Language string `json:"language,omitempty"`
	Emoji    string `json:"emoji,omitempty"`
}

// Intent is the structured form of one user utterance. It is produced once by
// the NLU layer, validated against the closed action vocabulary, and consumed
// exactly once by the dispatcher.
type Intent struct {
	Action        Action                 `json:"action" validate:"required,oneof=OPEN_PAGE CREATE_BLOCK UPDATE_BLOCK DELETE_BLOCK DELETE_PAGE GO_BACK CREATE_PAGE APPEND_TODO SUMMARIZE_PAGE GENERATE_CONTENT CREATE_DATABASE CREATE_KANBAN CREATE_TABLE ADD_DATABASE_ENTRY SEARCH_PAGES"`
	PageQuery     string                 `json:"pageQuery,omitempty"`
	BlockID       string                 `json:"blockId,omitempty"`
	Block         *BlockSpec             `json:"block,omitempty"`
	Prompt        string                 `json:"prompt,omitempty"`
	Position      string                 `json:"position,omitempty"`
	Options       *IntentOptions         `json:"options,omitempty"`
	DatabaseTitle string                 `json:"databaseTitle,omitempty"`
	DatabaseID    string                 `json:"databaseId,omitempty"`
	Columns       []string               `json:"columns,omitempty"`
	Properties    map[string]interface{} `json:"properties,omitempty"`
}

// ActionResult is the uniform outcome of every executor. It feeds both the
// user-facing reply and the latency accounting.
type ActionResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	PageID   string `json:"page_id,omitempty"`
	BlockID  string `json:"block_id,omitempty"`
	Duration int64  `json:"duration_ms"`
}
