package dev

// overlayCSS styles the error overlay shown by the client script.
const overlayCSS = `#vcore-error{position:fixed;inset:0;background:rgba(0,0,0,.9);color:#fff;font:14px monospace;padding:20px;overflow:auto;z-index:999999}
#vcore-error h2{color:#ff5555;margin:0 0 20px}
#vcore-error pre{white-space:pre-wrap;background:#1a1a1a;padding:20px;border:1px solid #333;border-radius:8px}`

// clientScript keeps the preview page in sync with the server. Patch
// messages replace the content of the root element; the mutation list is
// exposed on window.vcore for inspection.
const clientScript = `
(function() {
    'use strict';

    var delay = 1000;
    var maxDelay = 30000;
    window.vcore = {pass: 0, mutations: []};

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '` + WebSocketPath + `');

        ws.onopen = function() {
            delay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.type) {
                case 'patch':
                    var root = document.getElementById('` + RootID + `');
                    if (root && msg.pass !== window.vcore.pass) {
                        root.innerHTML = msg.html || '';
                    }
                    window.vcore.pass = msg.pass;
                    window.vcore.mutations = msg.mutations || [];
                    break;
                case 'error':
                    showError(msg.error);
                    break;
                case 'clear':
                    clearError();
                    break;
                case 'reload':
                    location.reload();
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                delay = Math.min(delay * 2, maxDelay);
                connect();
            }, delay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    function showError(text) {
        clearError();
        var overlay = document.createElement('div');
        overlay.id = 'vcore-error';
        var title = document.createElement('h2');
        title.textContent = 'Render error';
        var pre = document.createElement('pre');
        pre.textContent = text;
        overlay.appendChild(title);
        overlay.appendChild(pre);
        document.body.appendChild(overlay);
    }

    function clearError() {
        var overlay = document.getElementById('vcore-error');
        if (overlay) {
            overlay.remove();
        }
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
`
