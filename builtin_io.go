package lisp

import (
	"bufio"
	"io"
	"os"
)

// ---- I/O built-ins -----------------------------------------------------
//
// Ports are opaque handles over console or file streams. The default output
// port is stdout; display/write/newline accept an optional port argument.

// Port is an opaque I/O handle. Exactly one of in/out is set for file ports;
// the console port is write-only.
type Port struct {
	Name   string
	in     *bufio.Reader
	out    io.Writer
	closer io.Closer
	closed bool
}

var stdoutPort = &Port{Name: "stdout", out: os.Stdout}

// eofObject is the distinguished value returned by read-char at end of input.
var eofObject = Value{Tag: TagSym, Data: "#<eof>"}

func registerIOBuiltins(ip *Interp) {
	ip.RegisterPrimitive("display", Between(1, 2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		writeToPort("display", args, DisplayString(args[0]))
		return Void, nil
	})

	ip.RegisterPrimitive("write", Between(1, 2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		writeToPort("write", args, WriteString(args[0]))
		return Void, nil
	})

	ip.RegisterPrimitive("newline", Between(0, 1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		p := stdoutPort
		if len(args) == 1 {
			p = wantOutputPort("newline", args[0])
		}
		if _, err := io.WriteString(p.out, "\n"); err != nil {
			failf("newline: %v", err)
		}
		return Void, nil
	})

	ip.RegisterPrimitive("write-string", Between(1, 2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		writeToPort("write-string", args, wantStrArg("write-string", args[0]).String())
		return Void, nil
	})

	ip.RegisterPrimitive("current-output-port", Exactly(0), func(_ *Interp, _ []Value, _ *Env) (Value, *TailCall) {
		return PortVal(stdoutPort), nil
	})

	ip.RegisterPrimitive("open-input-file", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		name := wantStrArg("open-input-file", args[0]).String()
		f, err := os.Open(name)
		if err != nil {
			failf("open-input-file: %v", err)
		}
		return PortVal(&Port{Name: name, in: bufio.NewReader(f), closer: f}), nil
	})

	ip.RegisterPrimitive("open-output-file", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		name := wantStrArg("open-output-file", args[0]).String()
		f, err := os.Create(name)
		if err != nil {
			failf("open-output-file: %v", err)
		}
		return PortVal(&Port{Name: name, out: f, closer: f}), nil
	})

	ip.RegisterPrimitive("close-port", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		p := wantPortArg("close-port", args[0])
		if p.closer != nil && !p.closed {
			p.closed = true
			if err := p.closer.Close(); err != nil {
				failf("close-port: %v", err)
			}
		}
		return Void, nil
	})

	ip.RegisterPrimitive("read-char", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		p := wantPortArg("read-char", args[0])
		if p.in == nil || p.closed {
			failf("read-char: %s is not an open input port", p.Name)
		}
		r, _, err := p.in.ReadRune()
		if err == io.EOF {
			return eofObject, nil
		}
		if err != nil {
			failf("read-char: %v", err)
		}
		return Char(r), nil
	})

	ip.RegisterPrimitive("eof-object?", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Bool(Eq(args[0], eofObject)), nil
	})

	// load reads, parses and evaluates a source file in the root environment.
	ip.RegisterPrimitive("load", Exactly(1), func(ip *Interp, args []Value, _ *Env) (Value, *TailCall) {
		name := wantStrArg("load", args[0]).String()
		src, err := os.ReadFile(name)
		if err != nil {
			failf("load: %v", err)
		}
		v, err := ip.EvalSource(string(src))
		if err != nil {
			failf("load %s: %v", name, err)
		}
		return v, nil
	})
}

func writeToPort(name string, args []Value, s string) {
	p := stdoutPort
	if len(args) == 2 {
		p = wantOutputPort(name, args[1])
	}
	if _, err := io.WriteString(p.out, s); err != nil {
		failf("%s: %v", name, err)
	}
}

func wantPortArg(name string, v Value) *Port {
	p, ok := v.AsPort()
	if !ok {
		failf("%s: expected a port, got %s", name, v.Tag)
	}
	return p
}

func wantOutputPort(name string, v Value) *Port {
	p := wantPortArg(name, v)
	if p.out == nil || p.closed {
		failf("%s: %s is not an open output port", name, p.Name)
	}
	return p
}
