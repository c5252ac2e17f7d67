package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "init":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: blog init <dir>")
			os.Exit(1)
		}
		err = runInit(os.Args[2])
	case "version":
		fmt.Printf("blog %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`blog - A blog server with SEO metadata, built with Go, Echo, and templ

Usage:
  blog <command> [arguments]

Commands:
  serve [-config file]           Start the HTTP server
  import [-config file] <dir>    Copy markdown posts from dir into the database
  init <dir>                     Create a starter site in dir
  version                        Print the blog version
  help                           Show this help message

Examples:
  blog init myblog
  blog serve -config config.yaml
  blog import -config config.yaml content/blog`)
}
