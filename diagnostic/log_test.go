package diagnostic

import "testing"

func TestVerboseWarningsHiddenAtNormalLevel(t *testing.T) {
	var log Log
	log.Warn("allow set empty")
	log.Info("reduced 3 equations to 2")

	normal := log.String(Normal)
	if normal == "" {
		t.Fatalf("expected the info entry to be visible at Normal level")
	}
	verbose := log.String(Verbose)
	if len(verbose) <= len(normal) {
		t.Errorf("Verbose level should show strictly more than Normal once a warning exists")
	}
}

func TestEmptyLog(t *testing.T) {
	var log Log
	if !log.IsEmpty() {
		t.Errorf("a fresh Log should be empty")
	}
}
