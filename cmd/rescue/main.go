package main

import (
	"log"

	"github.com/Garsondee/Swarm-Rescue/internal/mission"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	ebiten.SetWindowTitle("Swarm Rescue")
	ebiten.SetWindowSize(1248, 1248)
	if err := ebiten.RunGame(mission.New()); err != nil {
		log.Fatal(err)
	}
}
