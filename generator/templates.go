package generator

import (
	"fmt"
	"strings"
)

// The scaffold templates are fixed strings with only the app name (and web
// build system) interpolated. There is deliberately no other branching.

const webTodoAppJS = `const todos = [];

const input = document.querySelector('#new-todo');
const list = document.querySelector('#todo-list');

function render() {
  list.innerHTML = '';
  todos.forEach((todo, i) => {
    const li = document.createElement('li');
    li.textContent = todo.title;
    li.className = todo.done ? 'done' : '';
    li.addEventListener('click', () => { todos[i].done = !todos[i].done; render(); });
    list.appendChild(li);
  });
}

document.querySelector('#todo-form').addEventListener('submit', (e) => {
  e.preventDefault();
  if (!input.value.trim()) return;
  todos.push({ title: input.value.trim(), done: false });
  input.value = '';
  render();
});

render();
`

const webGenericAppJS = `const items = [];

const input = document.querySelector('#new-item');
const list = document.querySelector('#item-list');

function render() {
  list.innerHTML = '';
  items.forEach((item, i) => {
    const li = document.createElement('li');
    li.textContent = item;
    const remove = document.createElement('button');
    remove.textContent = 'x';
    remove.addEventListener('click', () => { items.splice(i, 1); render(); });
    li.appendChild(remove);
    list.appendChild(li);
  });
}

document.querySelector('#item-form').addEventListener('submit', (e) => {
  e.preventDefault();
  if (!input.value.trim()) return;
  items.push(input.value.trim());
  input.value = '';
  render();
});

render();
`

const webIndexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>%s</title>
  <link rel="stylesheet" href="style.css" />
</head>
<body>
  <main>
    <h1>%s</h1>
    <form id="%s">
      <input id="%s" placeholder="Add an entry" autocomplete="off" />
      <button type="submit">Add</button>
    </form>
    <ul id="%s"></ul>
  </main>
  <script src="app.js"></script>
</body>
</html>
`

const webPackageJSON = `{
  "name": "%s",
  "private": true,
  "version": "0.1.0",
  "scripts": {
    "dev": "vite",
    "build": "vite build",
    "preview": "vite preview"
  },
  "devDependencies": {
    "vite": "^5.0.0"
  }
}
`

const androidTodoActivity = `package com.example.%s

import android.os.Bundle
import androidx.activity.ComponentActivity
import androidx.activity.compose.setContent
import androidx.compose.foundation.lazy.LazyColumn
import androidx.compose.foundation.lazy.itemsIndexed
import androidx.compose.material3.*
import androidx.compose.runtime.*

class MainActivity : ComponentActivity() {
    override fun onCreate(savedInstanceState: Bundle?) {
        super.onCreate(savedInstanceState)
        setContent { TodoScreen() }
    }
}

@Composable
fun TodoScreen() {
    val todos = remember { mutableStateListOf<Pair<String, Boolean>>() }
    var draft by remember { mutableStateOf("") }

    Column {
        TextField(value = draft, onValueChange = { draft = it })
        Button(onClick = {
            if (draft.isNotBlank()) { todos.add(draft to false); draft = "" }
        }) { Text("Add") }
        LazyColumn {
            itemsIndexed(todos) { i, (title, done) ->
                TextButton(onClick = { todos[i] = title to !done }) {
                    Text(if (done) "[x] $title" else "[ ] $title")
                }
            }
        }
    }
}
`

const androidGenericActivity = `package com.example.%s

import android.os.Bundle
import androidx.activity.ComponentActivity
import androidx.activity.compose.setContent
import androidx.compose.foundation.lazy.LazyColumn
import androidx.compose.foundation.lazy.items
import androidx.compose.material3.*
import androidx.compose.runtime.*

class MainActivity : ComponentActivity() {
    override fun onCreate(savedInstanceState: Bundle?) {
        super.onCreate(savedInstanceState)
        setContent { ItemScreen() }
    }
}

@Composable
fun ItemScreen() {
    val items = remember { mutableStateListOf<String>() }
    var draft by remember { mutableStateOf("") }

    Column {
        TextField(value = draft, onValueChange = { draft = it })
        Button(onClick = {
            if (draft.isNotBlank()) { items.add(draft); draft = "" }
        }) { Text("Add") }
        LazyColumn {
            items(items) { Text(it) }
        }
    }
}
`

const androidManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <application android:label="%s" android:theme="@style/Theme.Material3.DayNight">
        <activity android:name=".MainActivity" android:exported="true">
            <intent-filter>
                <action android:name="android.intent.action.MAIN" />
                <category android:name="android.intent.category.LAUNCHER" />
            </intent-filter>
        </activity>
    </application>
</manifest>
`

const androidBuildGradle = `plugins {
    id 'com.android.application'
    id 'org.jetbrains.kotlin.android'
}

android {
    namespace 'com.example.%s'
    compileSdk 34
    defaultConfig {
        applicationId "com.example.%s"
        minSdk 26
        targetSdk 34
        versionCode 1
        versionName "0.1.0"
    }
    buildFeatures { compose true }
}

dependencies {
    implementation 'androidx.activity:activity-compose:1.9.0'
    implementation 'androidx.compose.material3:material3:1.2.1'
}
`

const iosTodoContentView = `import SwiftUI

struct Todo: Identifiable {
    let id = UUID()
    var title: String
    var done = false
}

struct ContentView: View {
    @State private var todos: [Todo] = []
    @State private var draft = ""

    var body: some View {
        NavigationStack {
            List {
                ForEach($todos) { $todo in
                    Button {
                        todo.done.toggle()
                    } label: {
                        Label(todo.title, systemImage: todo.done ? "checkmark.circle.fill" : "circle")
                    }
                }
            }
            .navigationTitle("%s")
            .safeAreaInset(edge: .bottom) {
                HStack {
                    TextField("Add a task", text: $draft)
                    Button("Add") {
                        guard !draft.isEmpty else { return }
                        todos.append(Todo(title: draft))
                        draft = ""
                    }
                }
                .padding()
            }
        }
    }
}
`

const iosGenericContentView = `import SwiftUI

struct ContentView: View {
    @State private var items: [String] = []
    @State private var draft = ""

    var body: some View {
        NavigationStack {
            List {
                ForEach(items, id: \.self) { Text($0) }
                    .onDelete { items.remove(atOffsets: $0) }
            }
            .navigationTitle("%s")
            .safeAreaInset(edge: .bottom) {
                HStack {
                    TextField("Add an entry", text: $draft)
                    Button("Add") {
                        guard !draft.isEmpty else { return }
                        items.append(draft)
                        draft = ""
                    }
                }
                .padding()
            }
        }
    }
}
`

const iosInfoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>CFBundleDisplayName</key>
    <string>%s</string>
    <key>CFBundleShortVersionString</key>
    <string>0.1.0</string>
    <key>UILaunchScreen</key>
    <dict/>
</dict>
</plist>
`

const webStyleCSS = `body {
  font-family: system-ui, sans-serif;
  max-width: 32rem;
  margin: 2rem auto;
}

li.done {
  text-decoration: line-through;
  opacity: 0.6;
}
`

func webFiles(name string, todoShaped bool, _ string) []File {
	appJS := webGenericAppJS
	formID, inputID, listID := "item-form", "new-item", "item-list"
	if todoShaped {
		appJS = webTodoAppJS
		formID, inputID, listID = "todo-form", "new-todo", "todo-list"
	}
	return []File{
		{Filename: "index.html", Path: "web/index.html", Content: fmt.Sprintf(webIndexHTML, name, name, formID, inputID, listID)},
		{Filename: "app.js", Path: "web/app.js", Content: appJS},
		{Filename: "style.css", Path: "web/style.css", Content: webStyleCSS},
		{Filename: "package.json", Path: "web/package.json", Content: fmt.Sprintf(webPackageJSON, strings.ToLower(name))},
	}
}

func androidFiles(name string, todoShaped bool) []File {
	pkg := strings.ToLower(name)
	activity := androidGenericActivity
	if todoShaped {
		activity = androidTodoActivity
	}
	return []File{
		{Filename: "MainActivity.kt", Path: "android/app/src/main/java/com/example/" + pkg + "/MainActivity.kt", Content: fmt.Sprintf(activity, pkg)},
		{Filename: "AndroidManifest.xml", Path: "android/app/src/main/AndroidManifest.xml", Content: fmt.Sprintf(androidManifest, name)},
		{Filename: "build.gradle", Path: "android/app/build.gradle", Content: fmt.Sprintf(androidBuildGradle, pkg, pkg)},
	}
}

func iosFiles(name string, todoShaped bool) []File {
	view := iosGenericContentView
	if todoShaped {
		view = iosTodoContentView
	}
	return []File{
		{Filename: "ContentView.swift", Path: "ios/" + name + "/ContentView.swift", Content: fmt.Sprintf(view, name)},
		{Filename: "Info.plist", Path: "ios/" + name + "/Info.plist", Content: fmt.Sprintf(iosInfoPlist, name)},
	}
}
