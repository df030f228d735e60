package gym

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-gym/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is fixed for the lifetime of a BacktestEnv and applies to every episode.
type Config struct {
	StartingCash float64 `yaml:"starting_cash" json:"starting_cash" jsonschema:"title=Starting Cash,description=Cash balance at the start of every episode,minimum=0" validate:"gt=0"`
	// Commission is a rate of the traded notional for the percentage broker.
	Commission           float64                  `yaml:"commission" json:"commission" jsonschema:"title=Commission,description=Commission rate of the traded notional,minimum=0,maximum=1" validate:"gte=0,lt=1"`
	Broker               commission_fee.Broker    `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=Commission model applied to every fill" validate:"omitempty,oneof=interactive_broker zero_commission percentage"`
	ExclusiveOrders      bool                     `yaml:"exclusive_orders" json:"exclusive_orders" jsonschema:"title=Exclusive Orders,description=A new buy closes the open position first"`
	ActionThreshold      float64                  `yaml:"action_threshold" json:"action_threshold" jsonschema:"title=Action Threshold,description=Half width of the dead zone around zero,minimum=0" validate:"gte=0"`
	DesiredGain          optional.Option[float64] `yaml:"desired_gain" json:"desired_gain" jsonschema:"title=Desired Gain,description=Episode return the terminal reward is rescaled against. Null disables rescaling"`
	TradeMarketHoursOnly bool                     `yaml:"trade_market_hours_only" json:"trade_market_hours_only" jsonschema:"title=Trade Market Hours Only,description=Ignore actions outside 09:30-16:00 on the bar clock"`
	WarmupBars           int                      `yaml:"warmup_bars" json:"warmup_bars" jsonschema:"title=Warmup Bars,description=Bars consumed before the first tradable bar,minimum=0" validate:"gte=0"`
	Symbol               string                   `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Symbol stamped on orders. Defaults to the symbol of the first bar"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		StartingCash:         10000,
		Commission:           0.002,
		Broker:               commission_fee.BrokerPercentage,
		ExclusiveOrders:      true,
		ActionThreshold:      0.5,
		DesiredGain:          optional.Some(0.3),
		TradeMarketHoursOnly: true,
		WarmupBars:           1,
		Symbol:               "",
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep their default.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// UnmarshalYAML overlays the keys present in the document on the receiver.
// An explicit null desired_gain disables terminal rescaling.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type rawConfig struct {
		StartingCash         *float64               `yaml:"starting_cash"`
		Commission           *float64               `yaml:"commission"`
		Broker               *commission_fee.Broker `yaml:"broker"`
		ExclusiveOrders      *bool                  `yaml:"exclusive_orders"`
		ActionThreshold      *float64               `yaml:"action_threshold"`
		DesiredGain          yaml.Node              `yaml:"desired_gain"`
		TradeMarketHoursOnly *bool                  `yaml:"trade_market_hours_only"`
		WarmupBars           *int                   `yaml:"warmup_bars"`
		Symbol               *string                `yaml:"symbol"`
	}

	var config rawConfig
	if err := unmarshal(&config); err != nil {
		return err
	}

	if config.StartingCash != nil {
		c.StartingCash = *config.StartingCash
	}

	if config.Commission != nil {
		c.Commission = *config.Commission
	}

	if config.Broker != nil {
		c.Broker = *config.Broker
	}

	if config.ExclusiveOrders != nil {
		c.ExclusiveOrders = *config.ExclusiveOrders
	}

	if config.ActionThreshold != nil {
		c.ActionThreshold = *config.ActionThreshold
	}

	switch {
	case config.DesiredGain.Kind == 0:
	case config.DesiredGain.ShortTag() == "!!null":
		c.DesiredGain = optional.None[float64]()
	default:
		var gain float64
		if err := config.DesiredGain.Decode(&gain); err != nil {
			return err
		}

		c.DesiredGain = optional.Some(gain)
	}

	if config.TradeMarketHoursOnly != nil {
		c.TradeMarketHoursOnly = *config.TradeMarketHoursOnly
	}

	if config.WarmupBars != nil {
		c.WarmupBars = *config.WarmupBars
	}

	if config.Symbol != nil {
		c.Symbol = *config.Symbol
	}

	return nil
}

// Validate checks the config with the validate tags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid environment config", err)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[float64]" {
				return &jsonschema.Schema{
					Type: "number",
				}
			}

			if strings.Contains(t.String(), "commission_fee.Broker") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "argo-gym-config"
	schema.Description = "Configuration schema for the backtest environment"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
