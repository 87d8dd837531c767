package tracing

// Span names.
const (
	SpanSession = "keymarker.session"
	SpanEmit    = "marker.emit"
)

// Attribute keys.
const (
	AttrMarkerName  = "marker.name"
	AttrMarkerKind  = "marker.kind"
	AttrSessionGUID = "session.guid"
	AttrHost        = "session.host"
)
