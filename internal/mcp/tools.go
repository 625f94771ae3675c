package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var analyzeToolDef = mcp.NewTool("string_analyze",
	mcp.WithDescription("Analyze a string and return its derived properties (length, palindrome flag, unique characters, word count, content hash, character frequency) without storing anything."),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The string to analyze"),
	),
)

var storeToolDef = mcp.NewTool("string_store",
	mcp.WithDescription("Analyze a string and store its derived properties, keyed by the SHA-256 hash of the content. Storing the same string again replaces the existing entry."),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The string to analyze and store"),
	),
)

var fetchToolDef = mcp.NewTool("string_fetch",
	mcp.WithDescription("Fetch a stored entry by content hash, or by the exact original string (resolved through its hash)."),
	mcp.WithString("identifier",
		mcp.Required(),
		mcp.Description("Content hash or the exact original string"),
	),
)

var listToolDef = mcp.NewTool("string_list",
	mcp.WithDescription("List stored entries in insertion order, optionally filtered by structured predicates. All predicates are optional and combine with AND."),
	mcp.WithBoolean("is_palindrome",
		mcp.Description("Keep only palindromes (true) or non-palindromes (false)"),
	),
	mcp.WithNumber("min_length",
		mcp.Description("Minimum length in characters, inclusive"),
	),
	mcp.WithNumber("max_length",
		mcp.Description("Maximum length in characters, inclusive"),
	),
	mcp.WithNumber("word_count",
		mcp.Description("Exact word count"),
	),
	mcp.WithNumber("min_word_count",
		mcp.Description("Minimum word count, inclusive"),
	),
	mcp.WithString("contains_character",
		mcp.Description("Single character the string must contain (case-sensitive)"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results to return (default 100, max 500)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Results to skip for pagination"),
	),
)

var queryToolDef = mcp.NewTool("string_query",
	mcp.WithDescription("Filter stored entries with a natural-language phrase, e.g. 'all single word palindromic strings' or 'strings longer than 10 characters containing the letter z'. Unrecognized text matches everything."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural-language filter phrase"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results to return (default 100, max 500)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Results to skip for pagination"),
	),
)

var deleteToolDef = mcp.NewTool("string_delete",
	mcp.WithDescription("Delete a stored entry by content hash, or by the exact original string (resolved through its hash)."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Content hash or the exact original string"),
	),
)

var exportToolDef = mcp.NewTool("string_export",
	mcp.WithDescription("Export all stored entries to a JSONL file. Paths must be .jsonl files directly inside an allowed directory."),
	mcp.WithString("path",
		mcp.Description("Destination file path (default: a timestamped file under the exports directory)"),
	),
)

var importToolDef = mcp.NewTool("string_import",
	mcp.WithDescription("Import entries from a JSONL export file. Every value is re-analyzed on import; per-line failures are reported without aborting the run."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Source file path"),
	),
)
