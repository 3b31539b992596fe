package tracing

// Instrumentation scopes.
const (
	ScopeMarkup  = "github.com/zjrosen/htx/internal/markup"
	ScopeAnswers = "github.com/zjrosen/htx/internal/answers"
	ScopeCmd     = "github.com/zjrosen/htx/cmd"
)

// Span names outside the markup engine.
const (
	SpanExport      = "registry.export"
	SpanAnswersSave = "answers.save"
	SpanAnswersLoad = "answers.load"
)

// Span attribute keys.
const (
	AttrTaskID      = "task.id"
	AttrRecordCount = "export.records"
	AttrMarkupPath  = "markup.path"
)
