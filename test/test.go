package main

import (
	"flag"

	"github.com/labstack/gommon/log"

	grid "github.com/fukurin00/map_drawer/routing"
)

func main() {
	yamlFile := flag.String("map", "../map/map.yaml", "exported map yaml")
	flag.Parse()

	m, err := grid.ReadMapImage(*yamlFile, 0)
	if err != nil {
		log.Fatal(err)
	}
	open, close := m.Counts()
	log.Print(m.Reso, m.Origin, m.H, m.W, len(m.Data), open, close)
}
