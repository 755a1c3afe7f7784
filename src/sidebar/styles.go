package sidebar

// Stylesheet is injected once per document as <style data-medshield="1">.
const Stylesheet = `
#medshield-sidebar {
  position: fixed;
  top: 0;
  right: 0;
  width: 360px;
  height: 100%;
  z-index: 2147483647;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
  display: flex;
  flex-direction: column;
  background-color: #f9f9f9;
  color: #333;
  border-left: 1px solid #e0e0e0;
  box-shadow: -2px 0 15px rgba(0,0,0,0.1);
}
.ms-header { display: flex; justify-content: space-between; align-items: center; padding: 16px; border-bottom: 1px solid #e0e0e0; }
.ms-header-title { font-size: 18px; font-weight: 600; display: flex; align-items: center; }
.ms-header-title .ms-icon { margin-right: 8px; font-size: 20px; }
.ms-close-btn { background: none; border: none; font-size: 24px; cursor: pointer; color: #888; }
.ms-content { padding: 16px; overflow-y: auto; flex: 1; }
.ms-card { background-color: #fff; border-radius: 8px; padding: 16px; margin-bottom: 16px; border: 1px solid #e0e0e0; }
.ms-card h3 { margin: 0 0 8px 0; font-size: 14px; color: #555; font-weight: 600; }
.ms-card p { margin: 0 0 16px 0; line-height: 1.5; }
.ms-verdict { font-weight: 700; font-size: 18px; }
.ms-verdict.misinformation { color: #d93025; }
.ms-verdict.true { color: #1e8e3e; }
.ms-verdict.unclear { color: #f29900; }
.ms-danger-meter { height: 8px; width: 100%; background-color: #e0e0e0; border-radius: 4px; overflow: hidden; margin-top: 4px; }
.ms-danger-level { height: 100%; border-radius: 4px; }
.ms-danger-level.low { background-color: #1e8e3e; width: 25%; }
.ms-danger-level.moderate { background-color: #f29900; width: 50%; }
.ms-danger-level.high { background-color: #d93025; width: 75%; }
.ms-danger-level.critical { background-color: #a50e0e; width: 100%; }
.ms-source-link { display: block; background-color: #f1f3f4; padding: 10px; border-radius: 6px; margin-top: 8px; text-decoration: none; color: #333; font-weight: 500; word-wrap: break-word; }
.ms-source-link:hover { background-color: #e8eaed; }
.ms-controls { display: flex; gap: 8px; margin-top: 16px; flex-wrap: wrap; }
.ms-controls button { background-color: #007bff; color: #fff; border: none; padding: 8px 12px; border-radius: 6px; cursor: pointer; font-size: 13px; font-weight: 500; }
.ms-controls button:hover { background-color: #0056b3; }
#medshield-footer { padding: 8px; border-top: 1px solid #eee; font-size: 12px; color: #555; text-align: center; }

body.dark-theme #medshield-sidebar { background-color: #121212; color: #e0e0e0; border-left: 1px solid #333; box-shadow: -2px 0 15px rgba(0,0,0,0.5); }
body.dark-theme .ms-header { border-bottom: 1px solid #333; }
body.dark-theme .ms-close-btn { color: #bbb; }
body.dark-theme .ms-card { background-color: #1e1e1e; border: 1px solid #444; }
body.dark-theme .ms-card h3 { color: #aaa; }
body.dark-theme .ms-source-link { background-color: #2c2c2c; color: #e0e0e0; }
body.dark-theme .ms-source-link:hover { background-color: #383838; }
body.dark-theme .ms-danger-meter { background-color: #444; }
body.dark-theme #medshield-footer { border-top: 1px solid #333; color: #aaa; }

mark.medshield-mark { background: yellow; padding: 0 2px; }
`
