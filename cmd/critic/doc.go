// Critic sends source files to an LLM chat-completion service for review.
//
// It selects files from a single path or a directory tree, renders them with
// a directory layout into one document, and prints the service's reply. Exit
// codes are deterministic so the tool can be scripted.
//
// Usage:
//
//	critic review -f main.py                 # review one file
//	critic review -d src -r                  # review a tree recursively
//	critic review -d . -r -L python -i .gitignore
//	critic review -d . --dry-run             # print the document, send nothing
//	critic config init                       # write a default config file
//	critic models list                       # show known providers and models
package main
