package pipeline

// webSinkConnector is the synthesized sink name used when a statement has no declared sink
// (a bare/anonymous SELECT) or when preview mode replaces every connector sink (§4.5, §6).
const webSinkConnector = "web"

// buildSink attaches the terminal Sink node. sinkName is empty for an anonymous insert.
func buildSink(input SqlOperator, sinkName string, preview bool) *Sink {
	name := sinkName
	if name == "" || preview {
		name = webSinkConnector
	}
	return &Sink{Input: input, Connector: ConnectorSpec{Name: name}}
}
