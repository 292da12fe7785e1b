/*
Package config holds the application configuration of the restyle command.

Configuration is read from a YAML file. Nested maps are flattened into
dotted keys, so

	trace:
	  root: Error
	  restyle.engine: Debug
	engine:
	  strict: true

yields keys "trace.root", "trace.restyle.engine" and "engine.strict". Conf
implements schuko.Configuration and may therefore be used to configure
schuko tracing (see SetupTracing).

Library packages never read configuration; they are configured through
explicit options, e.g. engine.Options.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config
