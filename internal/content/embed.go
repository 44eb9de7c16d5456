package content

import "embed"

// DefaultPosts holds the posts shipped with the binary. A configured
// content_dir overrides them at startup.
//
//go:embed posts/*.md
var DefaultPosts embed.FS

// DefaultPostsDir is the directory inside DefaultPosts holding the files.
const DefaultPostsDir = "posts"
