package activity

import (
	"strings"
	"time"
)

// OptionEventInput describes the common fields for option lifecycle events.
type OptionEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Recipients []string
	Metadata   map[string]any
	Option     string
	Letter     string
	Module     string
	Class      string
	Outcome    string
	OldValue   int
	NewValue   int
	OccurredAt time.Time
}

// BuildOptionRegisteredEvent constructs an activity event for a descriptor
// joining the registry.
func BuildOptionRegisteredEvent(input OptionEventInput) Event {
	return buildOptionEvent("option.registered", "option", input, false)
}

// BuildOptionDeregisteredEvent constructs an activity event for a descriptor
// leaving the registry.
func BuildOptionDeregisteredEvent(input OptionEventInput) Event {
	return buildOptionEvent("option.deregistered", "option", input, false)
}

// BuildOptionChangedEvent constructs an activity event for an effective
// value change, carrying the old and new values in metadata.
func BuildOptionChangedEvent(input OptionEventInput) Event {
	return buildOptionEvent("option.changed", "option", input, true)
}

// BuildModuleLoadedEvent constructs an activity event for an extension
// module registering its option block.
func BuildModuleLoadedEvent(input OptionEventInput) Event {
	return buildOptionEvent("module.loaded", "module", input, false)
}

// BuildModuleUnloadedEvent constructs an activity event for an extension
// module withdrawing its option block.
func BuildModuleUnloadedEvent(input OptionEventInput) Event {
	return buildOptionEvent("module.unloaded", "module", input, false)
}

func buildOptionEvent(verb, objectType string, input OptionEventInput, withValues bool) Event {
	metadata := cloneMap(input.Metadata)
	if input.Letter != "" {
		metadata = ensureMetadata(metadata)
		metadata["letter"] = input.Letter
	}
	if input.Class != "" {
		metadata = ensureMetadata(metadata)
		metadata["class"] = input.Class
	}
	if input.Outcome != "" {
		metadata = ensureMetadata(metadata)
		metadata["outcome"] = input.Outcome
	}
	if input.Module != "" {
		metadata = ensureMetadata(metadata)
		metadata["module"] = input.Module
	}
	if withValues {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
		metadata["new_value"] = input.NewValue
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.Option)
	if objectID == "" && input.Letter != "" {
		objectID = "-" + input.Letter
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.Module)
	}
	if objectID == "" {
		objectID = objectType
	}
	if objectType == "module" && input.Module != "" {
		objectID = strings.TrimSpace(input.Module)
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Recipients: recipients,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
