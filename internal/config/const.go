package config

// Application constants
const (
	Application = "buildergen"
	Description = "Builder Generator derives staged builders for Go structs"
	WebSite     = "https://github.com/origadmin/buildergen"
	UI          = `
 _           _ _     _
| |__  _   _(_) | __| | ___ _ __ __ _  ___ _ __
| '_ \| | | | | |/ _' |/ _ \ '__/ _' |/ _ \ '_ \
| |_) | |_| | | | (_| |  __/ | | (_| |  __/ | | |
|_.__/ \__,_|_|_|\__,_|\___|_|  \__, |\___|_| |_|
                                |___/
`
	// EnvPrefix prefixes every environment variable read by the configuration.
	EnvPrefix = "BUILDERGEN"
	// FileName is the configuration file looked up in the package directory, without extension.
	FileName = ".buildergen"
)
