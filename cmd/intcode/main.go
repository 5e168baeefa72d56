// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	goio "io"
	"log"
	"os"

	"github.com/ezrec/intcode/emulator"
	"github.com/ezrec/intcode/translate"
)

func main() {
	var file string
	var compile string
	var save bool
	var list bool
	var input string
	var output string
	var numeric bool
	var memory int
	var config string
	var lang string
	var verbose bool

	flag.StringVar(&file, "f", "", ".ic program file to run")
	flag.StringVar(&compile, "c", "", ".ica assembly file to compile")
	flag.BoolVar(&save, "s", false, "Write the program to output, do not execute")
	flag.BoolVar(&list, "l", false, "Write a disassembly listing to output, do not execute")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.BoolVar(&numeric, "n", false, "Write tape output as decimal lines")
	flag.IntVar(&memory, "m", emulator.DEFAULT_MEMORY_LIMIT, "Memory limit, in cells")
	flag.StringVar(&config, "config", "", "TOML configuration file")
	flag.StringVar(&lang, "lang", "", "Message language")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(file) != 0 && len(compile) != 0 {
		log.Fatalf("%v: -f and -c are exclusive", os.Args[0])
	}

	emu := emulator.NewEmulator()

	cfg := &emulator.Config{}
	if len(config) != 0 {
		var err error
		cfg, err = emulator.LoadConfig(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}

	// Flags given explicitly override the configuration file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "n":
			cfg.Numeric = numeric
		case "m":
			cfg.MemoryLimit = memory
		case "v":
			cfg.Verbose = verbose
		case "lang":
			cfg.Language = lang
		}
	})

	if len(cfg.Language) != 0 {
		err := translate.Use(cfg.Language)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Language, err)
		}
	}

	emu.Configure(cfg)

	switch {
	case len(file) != 0:
		inf, err := os.Open(file)
		if err != nil {
			log.Fatalf("%v: %v", file, err)
		}
		defer inf.Close()

		err = emu.Load(inf)
		if err != nil {
			log.Fatalf("%v: %v", file, err)
		}
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	default:
		log.Fatalf("%v: one of -f or -c is required", os.Args[0])
	}

	var out goio.Writer = os.Stdout
	if output != "-" {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		out = ouf
	}

	if save || list {
		var err error
		if save {
			_, err = emu.Program.WriteTo(out)
		}
		if list && err == nil {
			for ip, text := range emu.Program.Listing() {
				line := emu.Program.Line(ip)
				if line > 0 {
					_, err = fmt.Fprintf(out, "%04d: %-24s ; line %d\n", ip, text, line)
				} else {
					_, err = fmt.Fprintf(out, "%04d: %s\n", ip, text)
				}
				if err != nil {
					break
				}
			}
		}
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	if input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}
	emu.Tape.Output = out

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run()
	if err != nil {
		log.Fatal(err)
	}
}
