// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-fetch/pkg/types"
)

// loadConfig assembles the pipeline configuration from viper (flags,
// environment, config file, defaults) with secrets filling empty values.
func loadConfig(cmd *cobra.Command) types.Config {
	mailto := secretDefault("mailto", viper.GetString("mailto"))
	userAgent := viper.GetString("user_agent")

	noLedger, _ := cmd.Flags().GetBool("no-ledger")

	return types.Config{
		Resolver: types.ResolverConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("download.timeout"),
				UserAgent: userAgent,
				Mailto:    mailto,
			},
			OutputDir:   viper.GetString("output_dir"),
			ProxyPrefix: secretDefault("proxy-prefix", viper.GetString("proxy_prefix")),
			Lookup: types.LookupConfig{
				HTTPConfig: types.HTTPConfig{
					Timeout:   viper.GetDuration("lookup.timeout"),
					UserAgent: userAgent,
					Mailto:    mailto,
				},
				Backend: viper.GetString("lookup.backend"),
			},
		},
		Browser: types.BrowserConfig{
			InputFile: viper.GetString("browser.input"),
			OutputDir: viper.GetString("output_dir"),
			Wait:      viper.GetDuration("browser.wait"),
			ExecPath:  viper.GetString("browser.exec_path"),
			RemoteURL: viper.GetString("browser.remote_url"),
			Headless:  viper.GetBool("browser.headless"),
			LinkText:  viper.GetString("browser.link_text"),
		},
		LogLevel: viper.GetString("log_level"),
		Ledger:   viper.GetBool("ledger") && !noLedger,
	}
}
