// Package locale localizes the API messages. The site speaks Korean by
// default; English is the bundle fallback.
package locale

import (
	"embed"
	"io/fs"
	"strings"

	"github.com/hanlovechurch/church-ui/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

var (
	i18nBundle *i18n.Bundle
	localizer  *i18n.Localizer
)

func InitLocalizer(i18nFS embed.FS) error {
	i18nBundle = i18n.NewBundle(language.MustParse("en-US"))
	i18nBundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if err := parseTranslationFiles(i18nFS, i18nBundle); err != nil {
		return err
	}

	localizer = i18n.NewLocalizer(i18nBundle, "ko-KR")
	return nil
}

func createTemplateData(params []string, seperator ...string) map[string]any {
	var sep string = "=="
	if len(seperator) > 0 {
		sep = seperator[0]
	}

	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, sep, 2)
		templateData[parts[0]] = parts[1]
	}

	return templateData
}

// I18n resolves a message in the bundle's default language, falling back to
// the key itself when the bundle is not ready.
func I18n(key string, params ...string) string {
	return localize(localizer, key, params...)
}

// I18nCtx resolves a message in the language LocalizerMiddleware selected
// for this request, falling back to the default language.
func I18nCtx(c *gin.Context, key string, params ...string) string {
	if obj, exists := c.Get("I18n"); exists {
		if i18nFunc, ok := obj.(func(key string, params ...string) string); ok {
			return i18nFunc(key, params...)
		}
	}
	return I18n(key, params...)
}

func localize(l *i18n.Localizer, key string, params ...string) string {
	if l == nil {
		return key
	}

	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Errorf("Failed to localize message: %v", err)
		return key
	}

	return msg
}

// LocalizerMiddleware selects the response language from the lang cookie or
// the Accept-Language header. The localizer is scoped to the request, so
// concurrent requests in different languages do not race.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string

		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}

		l := localizer
		if i18nBundle != nil {
			l = i18n.NewLocalizer(i18nBundle, lang, "ko-KR")
		}

		c.Set("I18n", func(key string, params ...string) string {
			return localize(l, key, params...)
		})
		c.Next()
	}
}

func parseTranslationFiles(i18nFS embed.FS, i18nBundle *i18n.Bundle) error {
	return fs.WalkDir(i18nFS, "translation",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			data, err := i18nFS.ReadFile(path)
			if err != nil {
				return err
			}

			_, err = i18nBundle.ParseMessageFileBytes(data, path)
			return err
		})
}
