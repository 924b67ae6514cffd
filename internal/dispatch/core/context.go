package core

import (
	"fmt"

	"fleetops/pkg/client"
	"fleetops/pkg/logger"
)

// FlowContext carries a flow execution through its steps. Input holds the
// caller's parameters, Process holds intermediate results handed between
// steps, and Output is what the caller gets back.
type FlowContext struct {
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
	Client  *client.Client
	Log     *logger.Logger
}

func NewFlowContext(input map[string]any, client *client.Client, log *logger.Logger) *FlowContext {
	return &FlowContext{
		Input:   input,
		Process: make(map[string]any),
		Output:  make(map[string]any),
		Client:  client,
		Log:     log,
	}
}

// ExtractString returns the named input as a string, or "" when absent or of
// the wrong type.
func (c *FlowContext) ExtractString(key string) string {
	value, ok := c.Input[key].(string)
	if !ok {
		return ""
	}
	return value
}

// RequireString returns the named input as a string or errors when missing.
func (c *FlowContext) RequireString(key string) (string, error) {
	value := c.ExtractString(key)
	if value == "" {
		return "", MissingParamErr(key)
	}
	return value, nil
}

func MissingParamErr(paramName string) error {
	return fmt.Errorf("required param [%v] is missing", paramName)
}
