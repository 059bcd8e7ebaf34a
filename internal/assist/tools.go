package assist

// Tool names.
const (
	ToolFilterLogs = "filter_logs"
	ToolSearchLogs = "search_logs"
	ToolGetRecord  = "get_record"
	ToolLogStats   = "log_stats"
)

// Tool declares one callable tool. Parameters is a JSON Schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  string
}

const criteriaProperties = `
    "levels":    {"type": "array", "items": {"type": "string"}, "description": "Severity levels such as ERROR or WARNING."},
    "daemons":   {"type": "array", "items": {"type": "string"}},
    "hosts":     {"type": "array", "items": {"type": "string"}},
    "modules":   {"type": "array", "items": {"type": "string"}},
    "functions": {"type": "array", "items": {"type": "string"}},
    "sources":   {"type": "array", "items": {"type": "string"}, "description": "Loaded file names."},
    "keywords":  {"type": "array", "items": {"type": "string"}, "description": "Boolean keyword queries; all must match."},
    "since":     {"type": "string", "description": "Earliest timestamp, inclusive."},
    "until":     {"type": "string", "description": "Latest timestamp, inclusive."}`

// Tools lists every tool the dispatcher serves.
func Tools() []Tool {
	return []Tool{
		{
			Name:        ToolFilterLogs,
			Description: "Filter loaded log records by attributes, time range and keyword queries.",
			Parameters: `{
  "type": "object",
  "properties": {` + criteriaProperties + `,
    "limit": {"type": "integer", "minimum": 1, "maximum": 10000}
  }
}`,
		},
		{
			Name:        ToolSearchLogs,
			Description: "Search log messages with a boolean keyword query using &&, ||, ! and parentheses.",
			Parameters: `{
  "type": "object",
  "properties": {
    "query": {"type": "string"},
    "limit": {"type": "integer", "minimum": 1, "maximum": 10000}
  },
  "required": ["query"]
}`,
		},
		{
			Name:        ToolGetRecord,
			Description: "Fetch one log record by id.",
			Parameters: `{
  "type": "object",
  "properties": {
    "id": {"type": "integer"}
  },
  "required": ["id"]
}`,
		},
		{
			Name:        ToolLogStats,
			Description: "Summarise records: level counts, time range, histogram and top values.",
			Parameters: `{
  "type": "object",
  "properties": {` + criteriaProperties + `,
    "buckets": {"type": "integer", "minimum": 1, "maximum": 1000},
    "top": {"type": "integer", "minimum": 1, "maximum": 100}
  }
}`,
		},
	}
}
