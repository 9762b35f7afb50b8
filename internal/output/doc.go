// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package output exports browsed issues as NDJSON (Newline Delimited JSON),
// one issue per line with its repository context and latest reactions.
//
// Writer is a thread-safe NDJSON encoder over an io.Writer or file. Export
// turns the accumulated issue connection of a state.AppState into records
// and writes those past a given offset, so a caller paging through a
// repository can stream each page as it is merged:
//
//	w, err := output.NewFileWriter("issues.ndjson")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	written := 0
//	for {
//	    written, err = output.Export(w, sess.State(), written)
//	    ...
//	}
package output
