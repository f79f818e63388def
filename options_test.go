package vignet

import (
	"log/slog"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := buildOptions(nil)
	if o.kernel != KernelLanczos {
		t.Errorf("default kernel = %v, want %v", o.kernel, KernelLanczos)
	}
	if o.logger != Logger() {
		t.Error("default logger should fall back to the package logger")
	}
}

func TestWithKernel(t *testing.T) {
	for _, m := range []KernelMode{KernelLanczos, KernelTriangular, KernelNearest} {
		o := buildOptions([]Option{WithKernel(m)})
		if o.kernel != m {
			t.Errorf("WithKernel(%v) kernel = %v", m, o.kernel)
		}
	}
}

func TestWithLogger(t *testing.T) {
	l := slog.New(nopHandler{})
	o := buildOptions([]Option{WithLogger(l)})
	if o.logger != l {
		t.Error("WithLogger() did not set the call logger")
	}

	o = buildOptions([]Option{WithLogger(l), WithLogger(nil)})
	if o.logger != Logger() {
		t.Error("WithLogger(nil) should fall back to the package logger")
	}
}

func TestOptionsLastWins(t *testing.T) {
	o := buildOptions([]Option{WithKernel(KernelNearest), WithKernel(KernelTriangular)})
	if o.kernel != KernelTriangular {
		t.Errorf("kernel = %v, want %v", o.kernel, KernelTriangular)
	}
}
