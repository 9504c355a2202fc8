// Command amplc compiles an AMPL source file to a JVM class.
//
// The compiler writes <ClassName>.j Jasmin assembly next to the source file
// and, unless -S is given, invokes the Jasmin assembler named by the
// JASMIN_JAR environment variable on it.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/dvreede/amplc/pkg/compiler/diag"
	"github.com/dvreede/amplc/pkg/compiler/emitter"
	"github.com/dvreede/amplc/pkg/compiler/parser"
)

func main() {
	asmOnly := flag.Bool("S", false, "stop after writing Jasmin assembly")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: amplc [-S] [-v] <source file>")
		os.Exit(1)
	}
	srcPath := flag.Arg(0)

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if *verbose {
		log = log.Level(zerolog.TraceLevel)
	}

	src, err := os.ReadFile(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "amplc: %v\n", err)
		os.Exit(1)
	}

	b := emitter.NewBuilder()
	if err := parser.Compile(src, b, log); err != nil {
		if d, ok := err.(*diag.Diagnostic); ok {
			fmt.Fprintf(os.Stderr, "amplc: %s:%d:%d: %s\n",
				srcPath, d.Pos.Line, d.Pos.Col, d.Msg)
		} else {
			fmt.Fprintf(os.Stderr, "amplc: %s: %v\n", srcPath, err)
		}
		os.Exit(1)
	}

	asmPath := filepath.Join(filepath.Dir(srcPath), b.ClassName()+".j")
	if err := os.WriteFile(asmPath, []byte(b.Finalize()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "amplc: %v\n", err)
		os.Exit(1)
	}
	log.Debug().Str("path", asmPath).Msg("assembly written")

	if *asmOnly {
		return
	}

	jar := os.Getenv("JASMIN_JAR")
	if jar == "" {
		fmt.Fprintln(os.Stderr, "amplc: JASMIN_JAR not set; use -S to skip assembly")
		os.Exit(1)
	}
	cmd := exec.Command("java", "-jar", jar, "-d", filepath.Dir(srcPath), asmPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "amplc: jasmin: %v\n", err)
		os.Exit(1)
	}
}
