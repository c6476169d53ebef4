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


// Package segment recovers section boundaries from a manual's plain text.
//
// The manual is treated as a flat stream of lines that contains a table of
// contents. Segmentation runs in three steps:
//
//  1. A finite-state scan finds the contents marker and collects contents
//     entries ("Login ..... 5") until one of its stop conditions fires.
//  2. Each entry is cleaned into a display heading and an uppercased match key.
//  3. Headings are located in the text after the contents listing, in order,
//     and the lines between consecutive headings become section bodies.
//
// Every threshold the heuristics use lives in Options so it can be tuned and
// tested on its own. DefaultOptions reproduces the production values.
package segment
