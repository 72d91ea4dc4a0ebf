package providers

import (
	"errors"
	"fmt"
	"net/url"
	"wolwake/internal/structures"
	"wolwake/internal/wol"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors.OneError()
	}

	if _, err := wol.ParseMAC(c.conf.DesktopPC.MacAddress); err != nil {
		return fmt.Errorf("desktop_pc.mac_address: %w", err)
	}

	u, err := url.Parse(c.conf.EpgStation.ApiUrl)
	if err != nil {
		return fmt.Errorf("epgstation.api_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("epgstation.api_url: %q is not an absolute http(s) url", c.conf.EpgStation.ApiUrl)
	}

	if c.conf.Cache.MaxAgeHours <= 0 {
		return errors.New("cache.max_age_hours must be positive")
	}

	return nil
}
