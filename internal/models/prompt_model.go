package models

import "sort"

const (
	PromptFieldChannel = "channel"
	PromptFieldPrompt  = "prompt"
)

type WritingPrompt struct {
	ID      string `json:"id"`
	Channel string `json:"channel"`
	Prompt  string `json:"prompt"`
}

func PromptFromRecord(r Record) WritingPrompt {
	return WritingPrompt{
		ID:      r.ID,
		Channel: r.Fields.String(PromptFieldChannel),
		Prompt:  r.Fields.String(PromptFieldPrompt),
	}
}

var channelOrder = map[string]int{
	PostFieldTwitter:   0,
	PostFieldLinkedIn:  1,
	PostFieldInstagram: 2,
	PostFieldFacebook:  3,
	PostFieldBlog:      4,
}

// SortPrompts orders prompts by the fixed channel order; unknown channels
// go last, alphabetically.
func SortPrompts(prompts []WritingPrompt) {
	rank := func(channel string) int {
		if r, ok := channelOrder[channel]; ok {
			return r
		}
		return len(channelOrder)
	}
	sort.SliceStable(prompts, func(i, j int) bool {
		ri, rj := rank(prompts[i].Channel), rank(prompts[j].Channel)
		if ri != rj {
			return ri < rj
		}
		return prompts[i].Channel < prompts[j].Channel
	})
}
