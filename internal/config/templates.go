package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "scalp", "project":
		return scalpTemplate, nil
	case "minut":
		return minutTemplate, nil
	case "mpu":
		return mpuTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const scalpTemplate = `project = "scalp"
log_level = "info"
header_path = "fr_cmdes.h"
source_path = "fr_cmdes.c"
manifest_path = "catalog.yaml"
manifest_format = "yaml"
capture_path = "capture.cbor"
`

const minutTemplate = `project = "minut"
log_level = "info"
header_path = "minut/fr_cmdes.h"
source_path = "minut/fr_cmdes.c"
manifest_path = "minut/catalog.cbor"
manifest_format = "cbor"
`

const mpuTemplate = `groups = ["basic", "common", "mpu"]
extra_groups = ["cpu"]
log_level = "warn"
header_path = "mpu/fr_cmdes.h"
source_path = "mpu/fr_cmdes.c"
manifest_path = "mpu/catalog.yaml"
`
