// Package confloader loads OfChat configuration with koanf.
//
// Sources, lowest priority first: defaults already present in the target
// struct, a YAML file, OFCHAT_* environment variables, then overrides
// passed by the caller (command-line flags). Watcher reports changes to a
// config file so the dev server can apply them without a restart.
package confloader
