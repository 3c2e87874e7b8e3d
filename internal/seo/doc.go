// Package seo builds the local SEO snapshot from a site's source tree.
//
// The site is a TypeScript codebase; the builder does not execute it. It reads
// a fixed set of files and extracts string literals with regular expressions:
//
//	lib/seo/routes.ts             route metadata objects
//	app/sitemap.ts                sitemap path literals
//	app/robots.ts                 disallow rules and the sitemap URL
//	lib/seo/structured-data.ts    schema.org "@type" values
//	.github/workflows/*.yml       SEO audit steps
//
// A missing file yields empty input and a snapshot warning. Extracted inputs
// are evaluated field by field and then passed through the registered gates.
package seo
