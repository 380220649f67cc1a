package pipeline

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Input selects which ExecutionContext slot feeds an action.
type Input uint8

const (
	// InputEventFilePath selects the triggering event's file path.
	InputEventFilePath Input = iota
	// InputActionFilePath selects the file path left behind by the previous
	// action in the chain (or the event path if no prior action has set one).
	InputActionFilePath
)

// UnmarshalYAML implements yaml.Unmarshaler for Input, accepting the two
// variant names used in pipeline configuration documents.
func (i *Input) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	switch name {
	case "EventFilePath":
		*i = InputEventFilePath
	case "ActionFilePath":
		*i = InputActionFilePath
	default:
		return fmt.Errorf("unknown action input %q", name)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler for Input.
func (i Input) MarshalYAML() (interface{}, error) {
	switch i {
	case InputEventFilePath:
		return "EventFilePath", nil
	case InputActionFilePath:
		return "ActionFilePath", nil
	default:
		return nil, fmt.Errorf("invalid action input %d", i)
	}
}

// Action is a single step in a pipeline's action chain. Implementations are
// a closed tagged variant (MoveToDir, RunCmd); deserialization keys on a
// "type" tag, per §9's design note on dynamic dispatch over actions.
type Action interface {
	// Name returns the action's variant name, used both for the "type" tag
	// on serialization and for the TraceMessage action_name field.
	Name() string
	// MustSucceed reports whether a false return from Run should halt the
	// action chain regardless of the pipeline's stop_on_error setting.
	MustSucceed() bool
	// Run executes the action against the given context, returning whether
	// it succeeded.
	Run(context *ExecutionContext) bool
}

// actionList is the concrete, ordered, non-empty list of actions that make
// up a pipeline's action chain.
type actionList []Action

// actionEnvelope is the on-disk shape shared by all action variants: a
// "type" discriminator plus the variant-specific fields, decoded generically
// via a raw node so that the variant type can be resolved before decoding
// variant-specific fields.
type actionEnvelope struct {
	Type string `yaml:"type"`
}

// UnmarshalYAML implements yaml.Unmarshaler for actionList, dispatching each
// list element to its variant's own Go type based on the "type" tag.
func (l *actionList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("actions must be a sequence")
	}
	if len(value.Content) == 0 {
		return fmt.Errorf("actions must be non-empty")
	}

	result := make(actionList, 0, len(value.Content))
	for _, node := range value.Content {
		var envelope actionEnvelope
		if err := node.Decode(&envelope); err != nil {
			return fmt.Errorf("unable to determine action type: %w", err)
		}

		var action Action
		switch envelope.Type {
		case "MoveToDir":
			variant := &MoveToDir{}
			if err := node.Decode(variant); err != nil {
				return fmt.Errorf("unable to decode MoveToDir action: %w", err)
			}
			action = variant
		case "RunCmd":
			variant := &RunCmd{}
			if err := node.Decode(variant); err != nil {
				return fmt.Errorf("unable to decode RunCmd action: %w", err)
			}
			action = variant
		default:
			return fmt.Errorf("unknown action type %q", envelope.Type)
		}

		result = append(result, action)
	}

	*l = result
	return nil
}

// MarshalYAML implements yaml.Marshaler for actionList, re-attaching the
// "type" tag that UnmarshalYAML strips out during dispatch.
func (l actionList) MarshalYAML() (interface{}, error) {
	result := make([]map[string]interface{}, 0, len(l))
	for _, action := range l {
		data, err := yaml.Marshal(action)
		if err != nil {
			return nil, fmt.Errorf("unable to marshal action: %w", err)
		}
		var fields map[string]interface{}
		if err := yaml.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("unable to re-marshal action fields: %w", err)
		}
		fields["type"] = action.Name()
		result = append(result, fields)
	}
	return result, nil
}
