// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import "html/template"

// memes maps a trigger element ID to the content swapped in when it is clicked
var memes = map[string]template.HTML{
	"meme-ballot-box": `<figure class="meme"><img src="https://upload.wikimedia.org/wikipedia/commons/2/21/Ballot_box.svg" alt="A ballot box"><figcaption>Every vote counts. Even yours.</figcaption></figure>`,
	"meme-results":    `<figure class="meme"><figcaption>The people have spoken. Mostly.</figcaption></figure>`,
}

// Meme returns the fragment for a trigger ID
func Meme(id string) (template.HTML, bool) {
	m, ok := memes[id]
	return m, ok
}
