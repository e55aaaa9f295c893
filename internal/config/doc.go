// Package config loads the Emby server connection settings.
//
// # Resolution Order
//
//  1. An optional dotenv file (--env-file) is loaded into the environment.
//  2. If EMBY_API_KEY and EMBY_API_URL are both set, they are used as-is and
//     no file is read.
//  3. Otherwise the config file is required. Its location is the explicit
//     path, then $EMBY_CONFIG, then $XDG_CONFIG_HOME/emby-api.json, then
//     ~/.config/emby-api.json.
//  4. Either environment variable still overrides its key from the file.
//
// # File Format
//
// JSON by default; .yaml and .yml files are parsed as YAML:
//
//	{
//	  "api_key": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
//	  "api_url": "http://emby.local:8096"
//	}
//
// A trailing "/" on api_url is dropped. Both keys are required and api_url
// must be an absolute URL.
package config
