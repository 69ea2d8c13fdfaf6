// Package pkg provides the libraries behind sliced, a page layout optimizer
// for sheet music snippets.
//
// # Overview
//
// A score is cut into snippets (one image per system or staff). Sliced
// decides which snippets go on which page so that pages are filled evenly,
// then renders the pages. The pkg directory is organized into:
//
//  1. [layout] - the optimizer (blocks, page cost, partitioning)
//  2. [paper], [imagefile] - page geometry and image probing
//  3. [render] - SVG pages, PDF assembly and the JSON layout document
//  4. [pipeline] - cached orchestration of layout and render
//  5. [project] - persisted, editable image lists
//  6. [cache], [errors], [observability], [buildinfo] - infrastructure
//  7. [api] - the HTTP server
//
// # Architecture
//
//	image files / project
//	         ↓
//	    [imagefile] (MIME + dimensions)
//	         ↓
//	    [layout] (page assignment)
//	         ↓
//	    [render] (SVG per page → PDF, or JSON)
//
// # Quick Start
//
//	images, _ := pipeline.LoadImages(ctx, paths)
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, images, pipeline.DefaultOptions())
//	// result.Artifacts["pdf"][0] is the document
package pkg
