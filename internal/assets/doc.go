// Package assets is the template store: the fixed markup and stylesheets a
// book build is made from, embedded at compile time and overridable from disk.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed defaults shipped with the binary
//	    ├── FilesystemLoader  - overrides from a custom directory
//	    └── AssetResolver     - custom first, embedded fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── epub.css        # EPUB stylesheet (font-face is generated)
//	└── templates/
//	    ├── footer.html     # PDF footer fragment (text/template)
//	    └── toc.html        # EPUB table of contents (html/template)
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies every path stays within basePath.
package assets
