package i18n

import (
	"embed"
	"encoding/json"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Message IDs shared by handlers and usecases.
const (
	MsgChatUnavailable       = "ChatUnavailable"
	MsgChatTechnicalIssue    = "ChatTechnicalIssue"
	MsgChatInvalidAPIKey     = "ChatInvalidAPIKey"
	MsgChatEmptyMessage      = "ChatEmptyMessage"
	MsgCheckoutCreated       = "CheckoutCreated"
	MsgCheckoutMissingFields = "CheckoutMissingFields"
	MsgCheckoutEmptyCart     = "CheckoutEmptyCart"
	MsgCheckoutInProgress    = "CheckoutInProgress"
	MsgCheckoutFailed        = "CheckoutFailed"
	MsgProductNotFound       = "ProductNotFound"
	MsgCollectionNotFound    = "CollectionNotFound"
	MsgVariantNotFound       = "VariantNotFound"
	MsgVariantUnavailable    = "VariantUnavailable"
	MsgInvalidRequest        = "InvalidRequest"
)

type Translator struct {
	bundle      *goi18n.Bundle
	defaultLang string
}

// New loads the embedded locale files. defaultLang is used when the caller gives no
// usable Accept-Language value.
func New(defaultLang string) (*Translator, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		tag = language.Estonian
	}

	bundle := goi18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, path := range []string{"locales/active.et.json", "locales/active.en.json"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, path); err != nil {
			return nil, err
		}
	}

	return &Translator{bundle: bundle, defaultLang: tag.String()}, nil
}

// MustNew panics on a broken embedded locale; the files ship with the binary.
func MustNew(defaultLang string) *Translator {
	t, err := New(defaultLang)
	if err != nil {
		panic(err)
	}
	return t
}

// T localizes messageID for the given Accept-Language value. Unknown IDs come back verbatim.
func (t *Translator) T(acceptLanguage, messageID string) string {
	return t.Tf(acceptLanguage, messageID, nil)
}

func (t *Translator) Tf(acceptLanguage, messageID string, data map[string]interface{}) string {
	localizer := goi18n.NewLocalizer(t.bundle, acceptLanguage, t.defaultLang)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}
