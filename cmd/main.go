package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"go.kaleido.dev/pkg"
)

func main() {
	log.SetFlags(0)

	config := flag.String("config", "", "YAML options file")
	eval := flag.Bool("eval", false, "evaluate top-level expressions")
	emitIR := flag.Bool("emit-ir", true, "print the generated LLVM IR")
	flag.Parse()

	opt := &kaleido.Options{}
	if *config != "" {
		var err error
		if opt, err = kaleido.LoadOptionsFile(*config); err != nil {
			log.Fatal(err)
		}
	}

	if *eval {
		opt.Evaluate = true
	}
	opt.Output = os.Stdout

	c, err := kaleido.NewCompiler(opt)
	if err != nil {
		log.Fatal(err)
	}

	var programs []*kaleido.Program
	if flag.NArg() == 0 {
		programs = []*kaleido.Program{c.CompileReader("<stdin>", os.Stdin)}
	} else if programs, err = c.CompileAll(context.Background(), flag.Args()...); err != nil {
		log.Fatal(err)
	}

	failed := false
	for _, prog := range programs {
		if len(prog.Errors) != 0 {
			failed = true
			printErrors(prog.Name, prog.Errors)
		}

		for _, v := range prog.Values {
			fmt.Printf("Evaluated to %f\n", v)
		}

		if *emitIR {
			fmt.Println(prog.Module)
		}
	}

	if failed {
		os.Exit(1)
	}
}

func printErrors(name string, errs []error) {
	for _, err := range errs {
		switch {
		case errors.Is(err, kaleido.ErrUnexpectedToken),
			errors.Is(err, kaleido.ErrExpectedIdentifier),
			errors.Is(err, kaleido.ErrExpectedToken):
			log.Printf("%s:%s (syntax error)", name, err)
		default:
			log.Printf("%s:%s", name, err)
		}
	}
}
