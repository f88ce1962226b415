package execextra

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"testing"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not found", name)
	}
}

func TestExtraInOut(t *testing.T) {
	requireBinary(t, "dd")

	expected := []byte("hello")
	in := bytes.NewBuffer(expected)
	out := &bytes.Buffer{}

	c := Command("dd")
	inFD, err := c.ExtraIn(in)
	if err != nil {
		t.Fatal(err)
	}
	outFD, err := c.ExtraOut(out)
	if err != nil {
		t.Fatal(err)
	}
	c.Args = append(c.Args, fmt.Sprintf("if=/dev/fd/%d", inFD), fmt.Sprintf("of=/dev/fd/%d", outFD))

	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(expected, out.Bytes()) {
		t.Errorf("expected %q, got %q", expected, out.Bytes())
	}
}

func TestChildFDs(t *testing.T) {
	requireBinary(t, "true")

	c := Command("true")
	fd0, err := c.ExtraIn(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	fd1, err := c.ExtraOut(&bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if fd0 != 3 || fd1 != 4 {
		t.Errorf("expected fds 3 and 4, got %d and %d", fd0, fd1)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
}

func TestStartErrorClosesPipes(t *testing.T) {
	c := Command("/nonexistent/binary")
	if _, err := c.ExtraOut(&bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(); err == nil {
		t.Fatal("expected start error")
	}
	for _, closer := range c.closeAfterWait {
		if err := closer.Close(); err == nil {
			t.Errorf("expected %v to already be closed", closer)
		}
	}
}
