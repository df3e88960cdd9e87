package storage

import "testing"

func TestChecksum_KnownValue(t *testing.T) {
	t.Parallel()
	if got := Checksum(nil); got != "ef46db3751d8e999" {
		t.Errorf("Checksum(empty) = %q", got)
	}
	if got := Checksum([]byte("hello")); len(got) != 16 || got == Checksum([]byte("hellO")) {
		t.Errorf("Checksum(hello) = %q", got)
	}
}
