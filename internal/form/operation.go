package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/inovacc/jbconsole/internal/api"
	"github.com/inovacc/jbconsole/internal/model"
)

// ModelType is the tag naming an operation.
type ModelType string

const (
	ModelCredentials    ModelType = "credentials"
	ModelActivate       ModelType = "activate"
	ModelInstall        ModelType = "install"
	ModelAddChannel     ModelType = "add_channel"
	ModelChannelInstall ModelType = "channelInstall"
	ModelChannelUpdate  ModelType = "channelUpdate"
)

// ModelTypes lists every known tag.
var ModelTypes = []ModelType{
	ModelCredentials, ModelActivate, ModelInstall,
	ModelAddChannel, ModelChannelInstall, ModelChannelUpdate,
}

// ParseModelType accepts an exact tag.
func ParseModelType(tag string) (ModelType, error) {
	for _, t := range ModelTypes {
		if string(t) == tag {
			return t, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownModelType, tag)
}

// Backend is the API surface the operations submit to.
type Backend interface {
	ConfigureBot(ctx context.Context, botID string, credentials map[string]any) error
	ActivateBot(ctx context.Context, botID string, activation api.BotActivation) error
	InstallBot(ctx context.Context, secret string, payload map[string]any) error
	AddChannel(ctx context.Context, botID string, content model.ChannelContent) error
	UpdateChannel(ctx context.Context, channelID string, content model.ChannelContent) error
}

// SecretFunc returns the signed-in user's JB Manager secret.
type SecretFunc func(ctx context.Context) (string, error)

// Env is what an operation needs to submit.
type Env struct {
	Backend Backend
	Secret  SecretFunc
}

// Operation is one of Credentials, Activate, Install, AddChannel or
// UpdateChannel. The set is closed.
type Operation interface {
	ModelType() ModelType

	// Validate checks required fields before anything is sent.
	Validate(s *Schema) error
	Submit(ctx context.Context, env Env, s *Schema) error

	operation()
}

// NewOperation maps a tag to its operation. botID is the target bot and
// channelID the channel for channelUpdate.
func NewOperation(tag, botID, channelID string) (Operation, error) {
	mt, err := ParseModelType(tag)
	if err != nil {
		return nil, err
	}

	switch mt {
	case ModelCredentials:
		return Credentials{BotID: botID}, nil
	case ModelActivate:
		return Activate{BotID: botID}, nil
	case ModelInstall:
		return Install{}, nil
	case ModelAddChannel:
		return AddChannel{BotID: botID, Legacy: true}, nil
	case ModelChannelInstall:
		return AddChannel{BotID: botID}, nil
	case ModelChannelUpdate:
		return UpdateChannel{ChannelID: channelID}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownModelType, tag)
}

// Credentials stores every field as a bot credential.
type Credentials struct {
	BotID string
}

func (Credentials) operation() {}

func (Credentials) ModelType() ModelType { return ModelCredentials }

func (Credentials) Validate(s *Schema) error { return s.Validate(nil) }

// Payload is the "credentials" object.
func (Credentials) Payload(s *Schema) map[string]any {
	return s.Values()
}

func (o Credentials) Submit(ctx context.Context, env Env, s *Schema) error {
	return env.Backend.ConfigureBot(ctx, o.BotID, o.Payload(s))
}

// Activate sets the bot's phone number and WhatsApp key.
type Activate struct {
	BotID string
}

var activateLabels = map[string]string{
	"phone_number": "Phone number",
	"whatsapp":     "Whatsapp Key",
}

func (Activate) operation() {}

func (Activate) ModelType() ModelType { return ModelActivate }

func (Activate) Validate(s *Schema) error { return s.Validate(activateLabels) }

func (Activate) Payload(s *Schema) api.BotActivation {
	return api.BotActivation{
		PhoneNumber: stringify(s.Value("phone_number")),
		Channels:    map[string]string{"whatsapp": stringify(s.Value("whatsapp"))},
	}
}

func (o Activate) Submit(ctx context.Context, env Env, s *Schema) error {
	return env.Backend.ActivateBot(ctx, o.BotID, o.Payload(s))
}

// Install installs a new bot. It authenticates with the user's secret.
type Install struct{}

func (Install) operation() {}

func (Install) ModelType() ModelType { return ModelInstall }

func (Install) Validate(s *Schema) error { return s.Validate(nil) }

// Payload sends every field; list fields become trimmed string arrays.
func (Install) Payload(s *Schema) map[string]any {
	out := make(map[string]any, s.Len())

	for _, f := range s.Fields() {
		if f.Type == TypeList {
			out[f.Name] = f.SplitList()

			continue
		}

		out[f.Name] = f.Value
	}

	return out
}

func (o Install) Submit(ctx context.Context, env Env, s *Schema) error {
	if env.Secret == nil {
		return ErrSecretUnavailable
	}

	secret, err := env.Secret(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSecretUnavailable, err)
	}

	if secret == "" {
		return ErrSecretUnavailable
	}

	return env.Backend.InstallBot(ctx, secret, o.Payload(s))
}

// channelFields maps payload keys to the field names of each schema version.
type channelFields struct {
	name, kind, url, appID, key string
}

var (
	legacyChannelFields = channelFields{name: "Name", kind: "Provider", url: "API URL", appID: "Identifier", key: "Key"}
	channelFieldNames   = channelFields{name: "name", kind: "type", url: "url", appID: "app_id", key: "key"}
)

func (c channelFields) content(s *Schema) model.ChannelContent {
	return model.ChannelContent{
		Name:  stringify(s.Value(c.name)),
		Type:  stringify(s.Value(c.kind)),
		URL:   stringify(s.Value(c.url)),
		AppID: stringify(s.Value(c.appID)),
		Key:   stringify(s.Value(c.key)),
	}
}

// AddChannel adds a channel to a bot. Legacy selects the add_channel field
// names (Name, Provider, API URL, Identifier, Key).
type AddChannel struct {
	BotID  string
	Legacy bool
}

func (AddChannel) operation() {}

func (o AddChannel) ModelType() ModelType {
	if o.Legacy {
		return ModelAddChannel
	}

	return ModelChannelInstall
}

func (o AddChannel) fields() channelFields {
	if o.Legacy {
		return legacyChannelFields
	}

	return channelFieldNames
}

func (o AddChannel) Validate(s *Schema) error {
	if o.Legacy {
		return s.Validate(map[string]string{"Provider": "Channel"})
	}

	return s.Validate(nil)
}

func (o AddChannel) Payload(s *Schema) model.ChannelContent {
	c := o.fields().content(s)
	if o.Legacy {
		c.Status = model.ChannelStatusInactive
	}

	return c
}

func (o AddChannel) Submit(ctx context.Context, env Env, s *Schema) error {
	return env.Backend.AddChannel(ctx, o.BotID, o.Payload(s))
}

// UpdateChannel rewrites an existing channel.
type UpdateChannel struct {
	ChannelID string
}

func (UpdateChannel) operation() {}

func (UpdateChannel) ModelType() ModelType { return ModelChannelUpdate }

func (UpdateChannel) Validate(s *Schema) error { return s.Validate(nil) }

func (UpdateChannel) Payload(s *Schema) model.ChannelContent {
	return channelFieldNames.content(s)
}

func (o UpdateChannel) Submit(ctx context.Context, env Env, s *Schema) error {
	if o.ChannelID == "" {
		return errors.New("no channel selected")
	}

	return env.Backend.UpdateChannel(ctx, o.ChannelID, o.Payload(s))
}
