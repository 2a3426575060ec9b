// Package config provides configuration for the NAV comparison tool:
// built-in defaults overlaid by an optional navcompare.yaml file and
// NAV_* environment variables. The defaults reproduce the standard
// comparison workflow so the tool runs with no configuration at all.
package config
