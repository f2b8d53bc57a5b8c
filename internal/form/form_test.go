package form

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovacc/jbconsole/internal/api"
	"github.com/inovacc/jbconsole/internal/model"
)

type call struct {
	method string
	id     string
	secret string
	body   any
}

type fakeBackend struct {
	calls []call
	err   error
}

func (b *fakeBackend) record(c call) error {
	b.calls = append(b.calls, c)

	return b.err
}

func (b *fakeBackend) ConfigureBot(_ context.Context, botID string, credentials map[string]any) error {
	return b.record(call{method: "configure", id: botID, body: map[string]any{"credentials": credentials}})
}

func (b *fakeBackend) ActivateBot(_ context.Context, botID string, a api.BotActivation) error {
	return b.record(call{method: "activate", id: botID, body: a})
}

func (b *fakeBackend) InstallBot(_ context.Context, secret string, payload map[string]any) error {
	return b.record(call{method: "install", secret: secret, body: payload})
}

func (b *fakeBackend) AddChannel(_ context.Context, botID string, c model.ChannelContent) error {
	return b.record(call{method: "add_channel", id: botID, body: c})
}

func (b *fakeBackend) UpdateChannel(_ context.Context, channelID string, c model.ChannelContent) error {
	return b.record(call{method: "update_channel", id: channelID, body: c})
}

func staticSecret(s string) SecretFunc {
	return func(context.Context) (string, error) { return s, nil }
}

func jsonOf(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return string(data)
}

func TestField_String(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, ""},
		{"abc", "abc"},
		{float64(42), "42"},
		{1.5, "1.5"},
		{true, "true"},
		{false, "false"},
		{[]string{"a", "b"}, "a,b"},
		{7, "7"},
	}

	for _, tt := range tests {
		f := Field{Value: tt.value}
		assert.Equal(t, tt.want, f.String())
	}
}

func TestField_Blank(t *testing.T) {
	assert.True(t, (&Field{Value: "   "}).Blank())
	assert.True(t, (&Field{}).Blank())
	assert.False(t, (&Field{Value: float64(0)}).Blank(), "zero is not blank once stringified")
	assert.False(t, (&Field{Value: false}).Blank())
}

func TestField_Set(t *testing.T) {
	num := &Field{Name: "n", Type: TypeNumber}
	require.NoError(t, num.Set(" 12.5 "))
	assert.InDelta(t, 12.5, num.Value, 0)
	require.Error(t, num.Set("twelve"))

	flag := &Field{Name: "b", Type: TypeBoolean}
	require.NoError(t, flag.Set("true"))
	assert.Equal(t, true, flag.Value)
	require.Error(t, flag.Set("maybe"))

	sel := &Field{Name: "type", Type: TypeList, Options: []string{"telegram", "whatsapp"}}
	require.NoError(t, sel.Set("whatsapp"))
	require.Error(t, sel.Set("fax"))
	assert.True(t, sel.Selectable())

	free := &Field{Name: "urls", Type: TypeList}
	require.NoError(t, free.Set("anything, goes"))
	assert.False(t, free.Selectable())

	require.NoError(t, num.Set(""))
	assert.True(t, num.Blank())
}

func TestSchema_OrderAndClone(t *testing.T) {
	s := NewSchema(Field{Name: "b"}, Field{Name: "a"}, Field{Name: "c"})

	var names []string
	for _, f := range s.Fields() {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"b", "a", "c"}, names)

	c := s.Clone()
	require.NoError(t, c.Set("a", "changed"))
	assert.Equal(t, "", s.Value("a"), "clone edits do not leak")
	assert.Equal(t, "changed", c.Value("a"))

	require.ErrorIs(t, s.Set("zzz", "v"), ErrUnknownField)
}

func TestSchema_ValidateFirstMissing(t *testing.T) {
	s := NewSchema(
		Field{Name: "optional"},
		Field{Name: "first", Required: true, Value: " "},
		Field{Name: "second", Required: true},
	)

	err := s.Validate(nil)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "first", missing.Field)
	assert.Equal(t, "first is required", err.Error())

	require.NoError(t, s.Set("first", "x"))
	require.NoError(t, s.Set("second", "y"))
	require.NoError(t, s.Validate(nil))
}

func TestParseModelType(t *testing.T) {
	for _, mt := range ModelTypes {
		got, err := ParseModelType(string(mt))
		require.NoError(t, err)
		assert.Equal(t, mt, got)
	}

	_, err := ParseModelType("Credentials")
	require.ErrorIs(t, err, ErrUnknownModelType, "tags are exact")

	_, err = NewOperation("delete_everything", "b", "")
	require.ErrorIs(t, err, ErrUnknownModelType)
}

func TestNewOperation_Variants(t *testing.T) {
	tests := []struct {
		tag  string
		want Operation
	}{
		{"credentials", Credentials{BotID: "b1"}},
		{"activate", Activate{BotID: "b1"}},
		{"install", Install{}},
		{"add_channel", AddChannel{BotID: "b1", Legacy: true}},
		{"channelInstall", AddChannel{BotID: "b1"}},
		{"channelUpdate", UpdateChannel{ChannelID: "c1"}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			op, err := NewOperation(tt.tag, "b1", "c1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, op)
			assert.Equal(t, ModelType(tt.tag), op.ModelType())
		})
	}
}

func TestPayloads(t *testing.T) {
	t.Run("credentials", func(t *testing.T) {
		s := CredentialsSchema(model.Bot{
			RequiredCredentials: []string{"API_KEY", "TOKEN"},
			Credentials:         map[string]string{"API_KEY": "k1"},
		})
		require.NoError(t, s.Set("TOKEN", "t1"))

		assert.JSONEq(t, `{"API_KEY":"k1","TOKEN":"t1"}`, jsonOf(t, Credentials{}.Payload(s)))

		for _, f := range s.Fields() {
			assert.True(t, f.Secret)
		}
	})

	t.Run("activate", func(t *testing.T) {
		s := ActivateSchema()
		require.NoError(t, s.Set("phone_number", "+10000000000"))
		require.NoError(t, s.Set("whatsapp", "key123"))

		assert.JSONEq(t, `{"phone_number":"+10000000000","channels":{"whatsapp":"key123"}}`, jsonOf(t, Activate{}.Payload(s)))
	})

	t.Run("install", func(t *testing.T) {
		s := InstallSchema()
		require.NoError(t, s.Set("name", "Helper"))
		require.NoError(t, s.Set("code", "print('hi')"))
		require.NoError(t, s.Set("required_credentials", "a, b ,c"))
		require.NoError(t, s.Set("index_urls", "https://a.test"))

		got := Install{}.Payload(s)
		assert.Equal(t, []string{"a", "b", "c"}, got["required_credentials"])
		assert.Equal(t, []string{"https://a.test"}, got["index_urls"])
		assert.Equal(t, "Helper", got["name"])
		assert.Equal(t, "", got["dsl"])
		assert.Len(t, got, 7)
	})

	t.Run("add_channel legacy names", func(t *testing.T) {
		s := AddChannelSchema([]string{"telegram"})
		require.NoError(t, s.Set("Name", "tg"))
		require.NoError(t, s.Set("Provider", "telegram"))
		require.NoError(t, s.Set("API URL", "https://tg.test"))
		require.NoError(t, s.Set("Identifier", "bot-1"))
		require.NoError(t, s.Set("Key", "k"))

		assert.JSONEq(t,
			`{"name":"tg","type":"telegram","url":"https://tg.test","app_id":"bot-1","key":"k","status":"inactive"}`,
			jsonOf(t, AddChannel{Legacy: true}.Payload(s)))
	})

	t.Run("channelInstall", func(t *testing.T) {
		s := ChannelInstallSchema([]string{"pinnacle_whatsapp", "telegram"})
		assert.Equal(t, "pinnacle_whatsapp", s.Value("type"), "defaults to the first type")

		require.NoError(t, s.Set("name", "wa"))
		require.NoError(t, s.Set("url", "https://wa.test"))
		require.NoError(t, s.Set("app_id", "919"))
		require.NoError(t, s.Set("key", "secret"))

		assert.JSONEq(t,
			`{"name":"wa","type":"pinnacle_whatsapp","url":"https://wa.test","app_id":"919","key":"secret"}`,
			jsonOf(t, AddChannel{}.Payload(s)))
	})

	t.Run("channelUpdate", func(t *testing.T) {
		s := ChannelUpdateSchema(model.Channel{ID: "c1", Name: "wa", Type: "telegram", URL: "u", AppID: "a", Key: "k"})

		assert.JSONEq(t,
			`{"name":"wa","type":"telegram","url":"u","app_id":"a","key":"k"}`,
			jsonOf(t, UpdateChannel{}.Payload(s)))
	})
}

func TestValidationBlocksEveryOperation(t *testing.T) {
	tests := []struct {
		name      string
		op        Operation
		schema    *Schema
		wantLabel string
	}{
		{"credentials", Credentials{BotID: "b"}, NewSchema(Field{Name: "API_KEY", Required: true}), "API_KEY"},
		{"activate phone", Activate{BotID: "b"}, ActivateSchema(), "Phone number"},
		{"install", Install{}, InstallSchema(), "name"},
		{"add_channel", AddChannel{BotID: "b", Legacy: true}, AddChannelSchema(nil), "Channel"},
		{"channelInstall", AddChannel{BotID: "b"}, ChannelInstallSchema([]string{"telegram"}), "name"},
		{"channelUpdate", UpdateChannel{ChannelID: "c"}, ChannelUpdateSchema(model.Channel{Name: "n"}), "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			secretCalls := 0

			m := NewModal(Env{
				Backend: backend,
				Secret: func(context.Context) (string, error) {
					secretCalls++

					return "s", nil
				},
			}, nil)
			m.Open("", tt.op, tt.schema)

			err := m.Submit(context.Background())

			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.wantLabel, missing.Label)
			assert.Empty(t, backend.calls, "nothing is sent")
			assert.Zero(t, secretCalls, "no secret lookup before validation")
			assert.Equal(t, StateOpen, m.State())
			assert.Equal(t, tt.wantLabel+" is required", m.Alert())
		})
	}
}

func TestModal_ActivateWhatsappLabel(t *testing.T) {
	s := ActivateSchema()
	require.NoError(t, s.Set("phone_number", "+1"))

	err := Activate{}.Validate(s)
	assert.EqualError(t, err, "Whatsapp Key is required")
}

func TestModal_SubmitSuccess(t *testing.T) {
	backend := &fakeBackend{}
	saved := 0

	m := NewModal(Env{Backend: backend}, nil)
	m.OnSaved = func() { saved++ }

	assert.Equal(t, StateClosed, m.State())

	original := ActivateSchema()
	m.Open("Activate Helper", Activate{BotID: "b1"}, original)
	assert.Equal(t, StateOpen, m.State())
	assert.Equal(t, "Activate Helper", m.Title())

	require.NoError(t, m.Update("phone_number", "+10000000000"))
	require.NoError(t, m.Update("whatsapp", "key123"))
	assert.Equal(t, "", original.Value("phone_number"), "the caller's schema is not edited")

	require.NoError(t, m.Submit(context.Background()))

	assert.Equal(t, StateClosed, m.State())
	assert.Equal(t, 1, saved)
	assert.Nil(t, m.Schema())
	require.Len(t, backend.calls, 1)
	assert.Equal(t, "activate", backend.calls[0].method)
	assert.Equal(t, "b1", backend.calls[0].id)
	assert.JSONEq(t, `{"phone_number":"+10000000000","channels":{"whatsapp":"key123"}}`, jsonOf(t, backend.calls[0].body))

	require.ErrorIs(t, m.Submit(context.Background()), ErrNotOpen)
	require.ErrorIs(t, m.Update("x", "y"), ErrNotOpen)
}

func TestModal_ServerErrorKeepsOpen(t *testing.T) {
	backend := &fakeBackend{err: &api.RequestError{
		Status: http.StatusBadRequest,
		Body:   map[string]any{"detail": "Bot already exists"},
	}}
	saved := 0

	m := NewModal(Env{Backend: backend, Secret: staticSecret("jb-secret")}, nil)
	m.OnSaved = func() { saved++ }

	s := InstallSchema()
	require.NoError(t, s.Set("name", "Helper"))
	require.NoError(t, s.Set("code", "x"))
	m.Open("", Install{}, s)
	assert.Equal(t, "Settings", m.Title())

	require.Error(t, m.Submit(context.Background()))

	assert.Equal(t, StateOpen, m.State())
	assert.Equal(t, `Error from server "Bot already exists". Please try again.`, m.Alert())
	assert.Zero(t, saved)
	assert.Equal(t, "Helper", m.Schema().Value("name"), "edits survive for a retry")
	assert.Equal(t, "jb-secret", backend.calls[0].secret)

	backend.err = nil
	require.NoError(t, m.Submit(context.Background()))
	assert.Equal(t, 1, saved)
}

func TestModal_InstallSecretFailure(t *testing.T) {
	tests := []struct {
		name   string
		secret SecretFunc
	}{
		{"lookup error", func(context.Context) (string, error) { return "", errors.New("not signed in") }},
		{"empty secret", staticSecret("")},
		{"no secret source", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			m := NewModal(Env{Backend: backend, Secret: tt.secret}, nil)

			s := InstallSchema()
			require.NoError(t, s.Set("name", "n"))
			require.NoError(t, s.Set("code", "c"))
			m.Open("", Install{}, s)

			err := m.Submit(context.Background())
			require.ErrorIs(t, err, ErrSecretUnavailable)
			assert.Equal(t, "Failed to fetch the access token", m.Alert())
			assert.Empty(t, backend.calls)
			assert.Equal(t, StateOpen, m.State())
		})
	}
}

func TestModal_Close(t *testing.T) {
	m := NewModal(Env{Backend: &fakeBackend{}}, nil)
	m.Open("t", Credentials{BotID: "b"}, NewSchema())
	m.Close()

	assert.Equal(t, StateClosed, m.State())
	assert.Nil(t, m.Operation())
}

func TestAlert(t *testing.T) {
	assert.Empty(t, Alert(nil))
	assert.Equal(t, `Error from server "boom". Please try again.`, Alert(errors.New("boom")))
	assert.Equal(t, "x is required", Alert(&MissingFieldError{Field: "x", Label: "x"}))
}

func TestIsChannelSelector(t *testing.T) {
	assert.True(t, IsChannelSelector(ModelAddChannel, "Provider"))
	assert.True(t, IsChannelSelector(ModelChannelInstall, "type"))
	assert.False(t, IsChannelSelector(ModelChannelUpdate, "type"))
	assert.False(t, IsChannelSelector(ModelCredentials, "Provider"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "unknown", State(99).String())
}
