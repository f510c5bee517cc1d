// room/words.go
package room

import "math/rand"

var wordCorpus = []string{
	"Apple",
	"Banana",
	"Car",
	"Dog",
	"Elephant",
	"Guitar",
	"House",
	"Pizza",
	"Rocket",
	"Tree",
}

func randomWord() string {
	return wordCorpus[rand.Intn(len(wordCorpus))]
}
