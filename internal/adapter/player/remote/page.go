package remote

import "html/template"

type pageData struct {
	Title   string
	VideoID string
}

// playerPage hosts the YouTube embed and relays its clock over the /ws socket.
// It reconnects on its own, so restarting the desktop app does not need a page reload.
var playerPage = template.Must(template.New("player").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; background: #111827; color: #a8caf2; font-family: sans-serif; }
  #wrap { display: flex; flex-direction: column; align-items: center; padding: 16px; }
  #status { margin-top: 8px; font-size: 13px; }
</style>
</head>
<body>
<div id="wrap">
  <div id="player"></div>
  <div id="status">connecting&hellip;</div>
</div>
<script>
  const videoId = {{.VideoID}};
  let ws = null;
  let player = null;
  let playerReady = false;

  function status(text) { document.getElementById("status").textContent = text; }

  function send(msg) {
    if (ws && ws.readyState === WebSocket.OPEN) { ws.send(JSON.stringify(msg)); }
  }

  function connect() {
    const proto = location.protocol === "https:" ? "wss" : "ws";
    ws = new WebSocket(proto + "://" + location.host + "/ws");
    ws.onopen = function () {
      status("connected");
      if (playerReady) {
        send({type: "ready"});
        send({type: "state", state: player.getPlayerState(), time: player.getCurrentTime()});
      }
    };
    ws.onclose = function () {
      status("disconnected, retrying");
      setTimeout(connect, 1000);
    };
    ws.onmessage = function (ev) {
      if (!playerReady) { return; }
      const cmd = JSON.parse(ev.data);
      if (cmd.type === "seek") { player.seekTo(cmd.time, true); }
      else if (cmd.type === "play") { player.playVideo(); }
      else if (cmd.type === "pause") { player.pauseVideo(); }
    };
  }

  function onYouTubeIframeAPIReady() {
    player = new YT.Player("player", {
      height: "390",
      width: "640",
      videoId: videoId,
      events: {
        onReady: function () {
          playerReady = true;
          send({type: "ready"});
          setInterval(function () {
            send({type: "time", time: player.getCurrentTime()});
          }, 250);
        },
        onStateChange: function (e) {
          send({type: "state", state: e.data, time: player.getCurrentTime()});
        }
      }
    });
  }

  connect();
</script>
<script src="https://www.youtube.com/iframe_api"></script>
</body>
</html>
`))
