package query

import (
	"sort"

	"blogcore/internal/domain/content"
)

// IndexOf finds a post by locale slug.
func IndexOf(posts []content.Post, slug string) int {
	for i, p := range posts {
		if p.Slug == slug {
			return i
		}
	}
	return -1
}

// RelatedPosts ranks every other post by shared tags, newer first on ties.
// An unknown slug degrades to the newest posts.
func RelatedPosts(posts []content.Post, slug string, limit int) []content.Post {
	if limit <= 0 {
		return []content.Post{}
	}

	idx := IndexOf(posts, slug)
	if idx < 0 {
		return newest(posts, limit)
	}
	current := posts[idx]

	currentTags := make(map[string]struct{}, len(current.Tags))
	for _, t := range current.Tags {
		currentTags[t] = struct{}{}
	}

	type scoredPost struct {
		post  content.Post
		score int
	}
	candidates := make([]scoredPost, 0, len(posts))
	for i, p := range posts {
		if i == idx {
			continue
		}
		score := 0
		for _, t := range p.Tags {
			if _, ok := currentTags[t]; ok {
				score++
			}
		}
		candidates = append(candidates, scoredPost{post: p, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].post.Date > candidates[j].post.Date
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]content.Post, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.post)
	}
	return out
}

func newest(posts []content.Post, limit int) []content.Post {
	sorted := make([]content.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Adjacent holds the neighbours of a post in a newest-first collection:
// Previous is newer, Next is older.
type Adjacent struct {
	Previous *content.Post `json:"previous"`
	Next     *content.Post `json:"next"`
}

func AdjacentPosts(posts []content.Post, slug string) Adjacent {
	idx := IndexOf(posts, slug)
	if idx < 0 {
		return Adjacent{}
	}
	var adj Adjacent
	if idx > 0 {
		p := posts[idx-1]
		adj.Previous = &p
	}
	if idx+1 < len(posts) {
		p := posts[idx+1]
		adj.Next = &p
	}
	return adj
}
