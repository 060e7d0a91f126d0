package config

import (
	"fmt"

	"github.com/saladlab/consult-tags/internal/common"
	"github.com/saladlab/consult-tags/internal/model"
	"github.com/saladlab/consult-tags/internal/report"
	"github.com/spf13/viper"
)

// DefaultTrendLimit caps the trend series of a comparison.
const DefaultTrendLimit = 20

// SetDefaults registers defaults for every analysis key.
func SetDefaults() {
	d := report.DefaultOptions()
	viper.SetDefault("analysis.tag_field", d.TagField)
	viper.SetDefault("analysis.entity_field", d.EntityField)
	viper.SetDefault("analysis.id_field", d.IDField)
	viper.SetDefault("analysis.counting_policy", string(d.Policy))
	viper.SetDefault("analysis.top_n", d.TopN)
	viper.SetDefault("analysis.trend_limit", DefaultTrendLimit)
}

// LoadAnalysisOptions reads the analysis section.
func LoadAnalysisOptions() (report.Options, error) {
	opts := report.DefaultOptions()

	if v := viper.GetString("analysis.tag_field"); v != "" {
		opts.TagField = v
	}
	if v := viper.GetString("analysis.entity_field"); v != "" {
		opts.EntityField = v
	}
	if viper.IsSet("analysis.id_field") {
		opts.IDField = viper.GetString("analysis.id_field")
	}
	if v := viper.GetString("analysis.counting_policy"); v != "" {
		policy, err := model.ParseCountingPolicy(v)
		if err != nil {
			return opts, fmt.Errorf("%w: analysis.counting_policy: %w", common.ErrInvalidConfig, err)
		}
		opts.Policy = policy
	}
	if viper.IsSet("analysis.top_n") {
		opts.TopN = viper.GetInt("analysis.top_n")
		if opts.TopN < 0 {
			return opts, fmt.Errorf("%w: analysis.top_n must not be negative", common.ErrInvalidConfig)
		}
	}

	return opts, nil
}

// TrendLimit returns the configured trend series length.
func TrendLimit() int {
	if viper.IsSet("analysis.trend_limit") {
		if n := viper.GetInt("analysis.trend_limit"); n >= 0 {
			return n
		}
	}
	return DefaultTrendLimit
}
