/*
Copyright (C) 2024  The schemecore Authors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Command goschd serves a Scheme evaluator over a websocket, one frame
// in, one frame out, and optionally watches a directory of .scm files
// to auto-(load) them as they change - convenient for iterating on a
// long-running embedding without restarting the process.
package main

import (
	"flag"
	"log"
	"net/http"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"

	"schemecore/engine"
	"schemecore/scm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func main() {
	addr := flag.String("addr", ":4273", "listen address")
	watchDir := flag.String("watch", "", "directory of .scm files to auto-load on change (optional)")
	flag.Parse()

	eng, err := engine.New()
	if err != nil {
		log.Fatal(err)
	}

	if *watchDir != "" {
		go watchAndLoad(eng, *watchDir)
	}

	http.HandleFunc("/eval", func(w http.ResponseWriter, r *http.Request) {
		serveConn(eng, w, r)
	})
	log.Printf("goschd listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}

func serveConn(eng *engine.Engine, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("goschd: upgrade:", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		result, err := eng.Eval(string(msg))
		var out string
		if err != nil {
			out = "error: " + err.Error()
		} else {
			out = scm.Write(result)
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(out)); err != nil {
			return
		}
	}
}

// watchAndLoad (load)s every .scm file under dir whenever fsnotify
// reports it was written, so a long-running embedding picks up edits
// without a restart.
func watchAndLoad(eng *engine.Engine, dir string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Println("goschd: watcher:", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		log.Println("goschd: watch", dir, ":", err)
		return
	}
	for event := range watcher.Events {
		if filepath.Ext(event.Name) != ".scm" {
			continue
		}
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			continue
		}
		if _, err := eng.EvalFile(event.Name); err != nil {
			log.Println("goschd: reload", event.Name, ":", err)
			continue
		}
		log.Println("goschd: reloaded", event.Name)
	}
}
