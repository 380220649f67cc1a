package pipeline

// fakeTracePublisher is a minimal TracePublisher used across this package's
// tests to capture published messages without depending on pkg/trace.
type fakeTracePublisher struct {
	messages []fakeTraceMessage
}

type fakeTraceMessage struct {
	directoryPath string
	actionName    *string
	text          string
}

func (f *fakeTracePublisher) Publish(directoryPath string, actionName *string, text string) {
	f.messages = append(f.messages, fakeTraceMessage{directoryPath, actionName, text})
}
