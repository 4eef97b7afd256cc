package main

import "testing"

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	for _, key := range []string{"version", "build_date", "commit_id"} {
		if info[key] == "" {
			t.Errorf("GetBuildInfo missing %q", key)
		}
	}
	if info["version"] != GetVersion() {
		t.Errorf("version = %q, want %q", info["version"], GetVersion())
	}
}
