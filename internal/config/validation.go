package config

import (
	"errors"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks the configuration after defaults have been applied.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Site),
		validation.Field(&c.Content),
		validation.Field(&c.Output),
		validation.Field(&c.Build),
		validation.Field(&c.Server),
		validation.Field(&c.Subscribe),
		validation.Field(&c.Chat),
	)
}

func (s SiteConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.BaseURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&s.Author, validation.Required),
		validation.Field(&s.Theme, validation.In(ColorModeLight, ColorModeDark, ColorModeSystem)),
		validation.Field(&s.Nav, validation.Each(validation.By(linkItem))),
		validation.Field(&s.Social, validation.Each(validation.By(linkItem))),
	)
}

func (c ContentConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.PostsDir, validation.Required, validation.By(relativePath)),
		validation.Field(&c.PagesDir, validation.Required, validation.By(relativePath)),
		validation.Field(&c.StaticDir, validation.By(relativePath)),
		validation.Field(&c.Repository),
	)
}

func (r RepositoryConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required),
		validation.Field(&r.Branch, validation.Required),
	)
}

func (o OutputConfig) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Directory, validation.Required, validation.By(func(value any) error {
			dir, _ := value.(string)
			if strings.TrimSpace(dir) == "/" {
				return errors.New("refusing to write into /")
			}
			return nil
		})),
	)
}

func (b BuildConfig) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Order, validation.In(OrderDate, OrderSequence)),
		validation.Field(&b.Concurrency, validation.Min(1), validation.Max(64)),
	)
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Min(1), validation.Max(65535)),
		validation.Field(&s.MetricsPath, validation.By(func(value any) error {
			p, _ := value.(string)
			if !strings.HasPrefix(p, "/") {
				return errors.New("must start with /")
			}
			return nil
		})),
	)
}

func (s SubscribeConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Endpoint, validation.When(s.Enabled, validation.Required, validation.By(absoluteURL))),
		validation.Field(&s.BotCheck),
	)
}

func (b BotCheck) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Endpoint, validation.When(b.Enabled, validation.Required, validation.By(absoluteURL))),
		validation.Field(&b.TokenHeader, validation.Required),
		validation.Field(&b.SiteKey, validation.When(b.Enabled, validation.Required)),
		validation.Field(&b.ScriptURL, validation.When(b.Enabled, validation.Required, validation.By(absoluteURL))),
		validation.Field(&b.ResponseField, validation.When(b.Enabled, validation.Required)),
	)
}

func (c ChatConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Endpoint, validation.When(c.Endpoint != "", validation.By(absoluteURL))),
	)
}

func absoluteURL(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

func relativePath(value any) error {
	p, _ := value.(string)
	if strings.HasPrefix(p, "/") || strings.Contains(p, "..") {
		return errors.New("must be a relative path inside the content directory")
	}
	return nil
}

func linkItem(value any) error {
	item, ok := value.(LinkItem)
	if !ok {
		return nil
	}
	if item.Name == "" || item.URL == "" {
		return errors.New("name and url are required")
	}
	return nil
}
