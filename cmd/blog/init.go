package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mindmeld360/blog/scaffold"
)

func runInit(dir string) error {
	name := filepath.Base(filepath.Clean(dir))
	data := scaffold.Data{
		SiteName: scaffold.TitleFromName(name),
		BaseURL:  "http://localhost:3000",
		Date:     time.Now().UTC().Format("2006-01-02"),
	}

	fmt.Printf("Creating new blog: %s\n\n", dir)
	created, err := scaffold.Write(dir, data)
	for _, path := range created {
		fmt.Printf("  created %s\n", path)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", dir)
	fmt.Println("  blog serve -config config.yaml")
	return nil
}
