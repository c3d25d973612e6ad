package tools

import (
	"embed"
	"io/fs"
)

// ConfigFiles embeds the investigation playbooks from the config subdirectory
//
//go:embed all:config
var ConfigFiles embed.FS

// Playbooks returns the embedded playbook tree rooted at config/.
func Playbooks() fs.FS {
	sub, err := fs.Sub(ConfigFiles, "config")
	if err != nil {
		panic(err)
	}
	return sub
}
