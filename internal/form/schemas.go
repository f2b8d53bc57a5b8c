package form

import "github.com/inovacc/jbconsole/internal/model"

// InstallSchema is the form for installing a new bot.
func InstallSchema() *Schema {
	return NewSchema(
		Field{Name: "name", Type: TypeString, Required: true},
		Field{Name: "dsl", Type: TypeText},
		Field{Name: "code", Type: TypeText, Required: true},
		Field{Name: "requirements", Type: TypeText},
		Field{Name: "index_urls", Type: TypeList, Placeholder: "Use comma to separate multiple URLs"},
		Field{Name: "version", Type: TypeString},
		Field{Name: "required_credentials", Type: TypeList, Placeholder: "Use comma to separate for multiple credentials"},
	)
}

// CredentialsSchema has one secret field per required credential, filled
// with the stored value when there is one.
func CredentialsSchema(bot model.Bot) *Schema {
	s := NewSchema()
	for _, name := range bot.RequiredCredentials {
		s.Add(Field{Name: name, Type: TypeString, Secret: true, Value: bot.Credentials[name]})
	}

	return s
}

// ActivateSchema asks for the bot's phone number and WhatsApp key.
func ActivateSchema() *Schema {
	return NewSchema(
		Field{Name: "phone_number", Type: TypeString, Required: true},
		Field{Name: "whatsapp", Type: TypeString, Secret: true, Required: true},
	)
}

// AddChannelSchema is the legacy add-channel form. Provider options come
// from the server's channel types.
func AddChannelSchema(channelTypes []string) *Schema {
	return NewSchema(
		Field{Name: "Name", Type: TypeString},
		Field{Name: "Provider", Type: TypeList, Required: true, Options: channelTypes, Placeholder: "Select a channel type"},
		Field{Name: "API URL", Type: TypeString},
		Field{Name: "Identifier", Type: TypeString},
		Field{Name: "Key", Type: TypeString, Secret: true},
	)
}

// ChannelInstallSchema is the add-channel form. The type defaults to the
// first available channel type.
func ChannelInstallSchema(channelTypes []string) *Schema {
	var first string
	if len(channelTypes) > 0 {
		first = channelTypes[0]
	}

	return NewSchema(
		Field{Name: "name", Type: TypeString, Required: true},
		Field{Name: "type", Type: TypeList, Required: true, Value: first, Options: channelTypes, Placeholder: "Select Channel Type"},
		Field{Name: "url", Type: TypeText, Required: true},
		Field{Name: "app_id", Type: TypeText, Required: true},
		Field{Name: "key", Type: TypeText, Required: true},
	)
}

// ChannelUpdateSchema is prefilled from an existing channel.
func ChannelUpdateSchema(ch model.Channel) *Schema {
	return NewSchema(
		Field{Name: "name", Type: TypeString, Required: true, Value: ch.Name},
		Field{Name: "type", Type: TypeText, Required: true, Value: ch.Type},
		Field{Name: "url", Type: TypeText, Required: true, Value: ch.URL},
		Field{Name: "app_id", Type: TypeText, Required: true, Value: ch.AppID},
		Field{Name: "key", Type: TypeText, Required: true, Value: ch.Key},
	)
}

// IsChannelSelector reports whether name is the field whose options are the
// server's channel types.
func IsChannelSelector(mt ModelType, name string) bool {
	switch mt {
	case ModelAddChannel:
		return name == "Provider"
	case ModelChannelInstall:
		return name == "type"
	}

	return false
}
