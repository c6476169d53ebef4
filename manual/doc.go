// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package manual reads a user manual and flattens it to plain text lines.
//
// Manuals are fetched through afs, so a location may be a local path or any
// URL afs understands (file://, mem://, http(s)://, s3://, gs://). The format
// is chosen by extension:
//
//	.txt              used as-is
//	.md, .markdown    one line per block, soft line breaks kept
//	.html, .htm       one line per block element
//	.pdf              page text joined with form feeds
//	.docx             one line per paragraph
//
// Headings always land on their own line, which is what the segmenter
// looks for.
package manual
