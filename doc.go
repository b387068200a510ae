// Package html2book publishes a rendered web book as a paginated PDF and a
// reflowable EPUB sharing one title, author, subject and cover.
//
// # Quick Start
//
// Describe the book in a Job and run it:
//
//	pub := html2book.NewPublisher(html2book.WithLogger(slog.Default()))
//	report, err := pub.Run(ctx, html2book.Job{
//	    URL:      "http://localhost:8001",
//	    HTMLPath: "public/index.html",
//	    Book: html2book.BookMetadata{
//	        Title:    "The Opinionated Guide To React",
//	        Author:   "Sara Vieira",
//	        Subject:  "It Depends",
//	        Keywords: []string{"javascript", "react"},
//	    },
//	    Page: html2book.DefaultPageSettings(),
//	    Assets: html2book.Assets{
//	        Cover: "static/cover.png",
//	        Font:  html2book.FontAsset{File: "Merriweather-Regular.ttf", Family: "Merriweather"},
//	    },
//	    Output: html2book.OutputPaths{PDF: "book/book.pdf", EPUB: "book/book.epub"},
//	})
//
// # Pipeline
//
// A run moves through these states, stopping at the first failure:
//
//  1. Capturing: headless Chrome loads URL, waits for the network to settle
//     and prints the page with a "Page X of Y" footer
//  2. AssemblingPDF: a full-bleed cover page is placed in front of the
//     capture, the metadata is stamped, and book.pdf is replaced atomically
//  3. AssemblingEPUB: the HTML source is packaged with the cover, the font,
//     a stylesheet and a table of contents rendered from a template
//
// The EPUB stage never starts unless book.pdf was written. Errors wrap one
// of ErrCapture, ErrAsset, ErrSerialization or ErrPackaging.
//
// # Custom Assets
//
// The footer fragment, the TOC template and the EPUB stylesheet come from a
// template store compiled into the binary. Override any of them:
//
//	loader, err := html2book.NewAssetLoader("/path/to/assets")
//	pub := html2book.NewPublisher(html2book.WithAssetLoader(loader))
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── epub.css
//	└── templates/
//	    ├── footer.html
//	    └── toc.html
//
// # Browser Requirements
//
// Capture requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package html2book
